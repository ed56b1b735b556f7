package chain

import (
	"math/big"
	"strings"

	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// TONDecimals is the number of decimal places between TON and nanotons.
const TONDecimals = 9

// ParseDecimalAmount parses a decimal amount string to big.Int with the given decimal places.
// For example, "1.5" with 9 decimals returns 1500000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseDecimalAmount(amount string, decimalPlaces int, invalidAmountErr error) (*big.Int, error) {
	if amount == "" {
		return nil, invalidAmountErr
	}

	if strings.HasPrefix(amount, "-") {
		return nil, invalidAmountErr
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, invalidAmountErr
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if intPart == "" {
		intPart = "0"
	}
	for _, c := range intPart {
		if c < '0' || c > '9' {
			return nil, invalidAmountErr
		}
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, invalidAmountErr
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, invalidAmountErr
			}
		}

		// Digits below the smallest unit cannot be represented
		if len(decPart) > decimalPlaces {
			return nil, invalidAmountErr
		}
		for len(decPart) < decimalPlaces {
			decPart += "0"
		}

		if decPart != "" {
			decVal, ok := new(big.Int).SetString(decPart, 10)
			if !ok {
				return nil, invalidAmountErr
			}
			result = result.Add(result, decVal)
		}
	}

	return result, nil
}

// FormatDecimalAmount converts a big.Int to a human-readable string with the given decimal places.
// Trailing zeros after the decimal point are removed, as is a bare trailing point.
// For example, 1500000000 with 9 decimals returns "1.5".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}
	if amount.Sign() < 0 {
		return "-" + FormatDecimalAmount(new(big.Int).Abs(amount), decimalPlaces)
	}
	if decimalPlaces <= 0 {
		return amount.String()
	}

	str := amount.String()
	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	result := strings.TrimRight(str[:decimalPos]+"."+str[decimalPos:], "0")
	return strings.TrimSuffix(result, ".")
}

// ParseTON parses a TON amount such as "2.5" into nanotons.
func ParseTON(amount string) (*big.Int, error) {
	return ParseDecimalAmount(strings.TrimSpace(amount), TONDecimals, beaconerr.WithDetails(
		beaconerr.ErrInvalidAmount, map[string]string{"amount": amount},
	))
}

// FormatTON formats a nanoton amount as TON.
func FormatTON(nano *big.Int) string {
	return FormatDecimalAmount(nano, TONDecimals)
}

// BelowHalf reports whether balance < amount/2, evaluated exactly as
// 2*balance < amount.
func BelowHalf(balance, amount *big.Int) bool {
	doubled := new(big.Int).Lsh(orZero(balance), 1)
	return doubled.Cmp(orZero(amount)) < 0
}

// AtLeast reports whether balance >= amount.
func AtLeast(balance, amount *big.Int) bool {
	return orZero(balance).Cmp(orZero(amount)) >= 0
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
