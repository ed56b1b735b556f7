package ton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/dns"

	"github.com/mrz1836/beacon/internal/chain"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

func testAddress(fill byte) *address.Address {
	data := make([]byte, 32)
	for i := range data {
		data[i] = fill
	}
	return address.NewAddress(0, 0, data)
}

func TestDefaultConfigURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		network string
		want    string
	}{
		{Mainnet, "https://ton.org/global.config.json"},
		{"MAINNET", "https://ton.org/global.config.json"},
		{Testnet, "https://ton.org/testnet-global.config.json"},
		{"", "https://ton.org/testnet-global.config.json"},
	}

	for _, tc := range tests {
		t.Run(tc.network, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DefaultConfigURL(tc.network))
		})
	}
}

func TestProofPolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ton.ProofCheckPolicySecure, proofPolicy(Mainnet))
	assert.Equal(t, ton.ProofCheckPolicyFast, proofPolicy(Testnet))
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice.ton"},
		{" Alice.TON ", "alice.ton"},
		{"bob.t.me", "bob.t.me"},
		{"carol.ton.", "carol.ton"},
		{"   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NormalizeName(tc.in))
		})
	}
}

func TestLiteServerAddr(t *testing.T) {
	t.Parallel()

	assert.Empty(t, liteServerAddr(Options{}))
	assert.Empty(t, liteServerAddr(Options{LiteServerHost: "1.2.3.4"}))
	assert.Equal(t, "1.2.3.4:4443", liteServerAddr(Options{LiteServerHost: "1.2.3.4", LiteServerKey: "k"}))
	assert.Equal(t, "1.2.3.4:9000", liteServerAddr(Options{LiteServerHost: "1.2.3.4", LiteServerPort: 9000, LiteServerKey: "k"}))
}

func TestFriendlyAddress(t *testing.T) {
	t.Parallel()

	src := testAddress(0xAB)

	t.Run("mainnet", func(t *testing.T) {
		t.Parallel()
		s := FriendlyAddress(src, false)
		parsed, err := address.ParseAddr(s)
		require.NoError(t, err)
		assert.False(t, parsed.IsBounceable())
		assert.False(t, parsed.IsTestnetOnly())
		assert.Equal(t, src.Data(), parsed.Data())
		assert.False(t, isTestnetAddress(s))
	})

	t.Run("testnet", func(t *testing.T) {
		t.Parallel()
		s := FriendlyAddress(src, true)
		parsed, err := address.ParseAddr(s)
		require.NoError(t, err)
		assert.True(t, parsed.IsTestnetOnly())
		assert.True(t, isTestnetAddress(s))
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FriendlyAddress(nil, false))
	})
}

func TestRecordFor(t *testing.T) {
	t.Parallel()

	t.Run("wallet record becomes first pointer", func(t *testing.T) {
		t.Parallel()
		rec := recordFor("alice.ton", testAddress(0x01), false)
		require.Len(t, rec.Pointers, 1)
		assert.Equal(t, "wallet", rec.Pointers[0].Key)
		assert.Equal(t, FriendlyAddress(testAddress(0x01), false), rec.FirstPointer())
	})

	t.Run("no wallet record", func(t *testing.T) {
		t.Parallel()
		rec := recordFor("alice.ton", nil, false)
		assert.Equal(t, "alice.ton", rec.Name)
		assert.Empty(t, rec.Pointers)
		assert.Empty(t, rec.FirstPointer())
	})
}

func TestMapResolveError(t *testing.T) {
	t.Parallel()

	err := mapResolveError("missing.ton", dns.ErrNoSuchRecord)
	require.ErrorIs(t, err, chain.ErrNameNotFound)
	assert.Contains(t, err.Error(), "missing.ton")

	boom := errors.New("liteserver timeout")
	err = mapResolveError("alice.ton", boom)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, chain.ErrNameNotFound)
}

func TestDialError_IsRetryable(t *testing.T) {
	t.Parallel()

	err := dialError("https://example.invalid/config.json", errors.New("connection refused"))
	assert.True(t, chain.IsRetryable(err))
	assert.ErrorIs(t, err, beaconerr.ErrNetworkError)
}
