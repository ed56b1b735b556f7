// Package version reports the beacon build and checks GitHub for newer releases.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

// Build metadata, set with -ldflags "-X github.com/mrz1836/beacon/internal/version.Version=...".
//
//nolint:gochecknoglobals // Populated by the linker
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const (
	// DevVersion is reported for builds without version metadata.
	DevVersion = "dev"

	// Repository coordinates for release checks.
	Owner = "mrz1836"
	Repo  = "beacon"

	defaultBaseURL  = "https://api.github.com"
	defaultTimeout  = 15 * time.Second
	maxResponseBody = 64 * 1024
)

// ErrReleaseLookup is returned when the release API answers with an error.
var ErrReleaseLookup = errors.New("release lookup failed")

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current returns the running build's info, falling back to module build
// info when no linker values were set.
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info.Version == "" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	if info.Version == "" {
		info.Version = DevVersion
	}
	return info
}

// Release is the subset of a GitHub release used for update checks.
type Release struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// Checker queries GitHub for the latest release.
type Checker struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewChecker returns a Checker for the public GitHub API.
func NewChecker() *Checker {
	return &Checker{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Latest fetches the latest published release of owner/repo.
func (c *Checker) Latest(ctx context.Context, owner, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(c.BaseURL, "/"), owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", fmt.Sprintf("beacon/%s (%s/%s)", Current().Version, runtime.GOOS, runtime.GOARCH))

	resp, err := c.HTTPClient.Do(req) //nolint:gosec // URL is built from the configured API base
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxResponseBody)
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrReleaseLookup, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var rel Release
	if err := json.NewDecoder(body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}
	return &rel, nil
}

// Compare compares two semantic versions, ignoring a leading "v" and any
// pre-release or build suffix. Development builds sort before releases.
func Compare(a, b string) int {
	pa, okA := parse(a)
	pb, okB := parse(b)

	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}

	for i := range pa {
		if pa[i] != pb[i] {
			if pa[i] > pb[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// IsNewer reports whether latest is a newer release than current.
func IsNewer(current, latest string) bool {
	return Compare(latest, current) > 0
}

// parse returns major, minor and patch. ok is false for dev builds and
// anything that does not start with a number.
func parse(v string) (parts [3]int, ok bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}
	if v == "" || v == DevVersion {
		return parts, false
	}

	for i, field := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return parts, false
		}
		parts[i] = n
	}
	return parts, true
}
