package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := errorDetail(err)
	if format == FormatJSON {
		return writeJSON(w, ErrorOutput{Error: detail})
	}
	return formatErrorText(w, detail)
}

func errorDetail(err error) ErrorDetail {
	var be *beaconerr.BeaconError
	if !errors.As(err, &be) {
		return ErrorDetail{
			Code:     beaconerr.ErrGeneral.Code,
			Message:  err.Error(),
			ExitCode: beaconerr.ExitGeneral,
		}
	}

	msg := be.Message
	if be.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, be.Cause)
	}
	return ErrorDetail{
		Code:       be.Code,
		Message:    msg,
		Details:    be.Details,
		Suggestion: be.Suggestion,
		ExitCode:   be.ExitCode,
	}
}

func formatErrorText(w io.Writer, d ErrorDetail) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", d.Message)

	if len(d.Details) > 0 {
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", k, d.Details[k])
		}
	}

	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", d.Suggestion)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
