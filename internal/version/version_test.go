package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent_DefaultsToDev(t *testing.T) {
	info := Current()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.2.0", "1.1.9", 1},
		{"1.2", "1.2.1", -1},
		{"1.2.3-rc1", "1.2.3", 0},
		{"dev", "0.0.1", -1},
		{"0.0.1", "", 1},
		{"dev", "", 0},
		{"abc1234", "1.0.0", -1},
	}

	for _, tc := range tests {
		t.Run(tc.a+"_vs_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.a, tc.b))
		})
	}
}

func TestIsNewer(t *testing.T) {
	assert.True(t, IsNewer("1.0.0", "v1.0.1"))
	assert.True(t, IsNewer("dev", "0.1.0"))
	assert.False(t, IsNewer("1.0.1", "1.0.0"))
	assert.False(t, IsNewer("1.0.0", "1.0.0"))
}

func TestChecker_Latest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/mrz1836/beacon/releases/latest", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "beacon/")
		_, _ = w.Write([]byte(`{"tag_name":"v0.3.0","html_url":"https://github.com/mrz1836/beacon/releases/tag/v0.3.0"}`))
	}))
	defer srv.Close()

	c := NewChecker()
	c.BaseURL = srv.URL

	rel, err := c.Latest(context.Background(), Owner, Repo)
	require.NoError(t, err)
	assert.Equal(t, "v0.3.0", rel.TagName)
}

func TestChecker_LatestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewChecker()
	c.BaseURL = srv.URL

	_, err := c.Latest(context.Background(), Owner, Repo)
	require.ErrorIs(t, err, ErrReleaseLookup)
	assert.Contains(t, err.Error(), "403")
}
