package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blang/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releasesJSON = `[
  {"tag_name": "v9.0.0", "draft": true, "assets": [{"name": "upscale_linux_amd64", "browser_download_url": "https://example.com/draft"}]},
  {"tag_name": "v8.0.0-rc1", "prerelease": true},
  {"tag_name": "nightly", "name": "nightly build"},
  {"tag_name": "upscale-v1.2.0", "assets": [
    {"name": "checksums.txt", "browser_download_url": "https://example.com/1.2.0/checksums.txt"},
    {"name": "upscale_linux_amd64.tar.gz", "browser_download_url": "https://example.com/1.2.0/linux"}
  ]},
  {"tag_name": "release", "name": "Release 1.10.0", "assets": [
    {"name": "notes.txt", "browser_download_url": "https://example.com/1.10.0/notes.txt"}
  ]},
  {"tag_name": "v1.9.3"}
]`

func releaseServer(t *testing.T, status int, body string) *updater {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/"+updateRepo+"/releases", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	u := newUpdater()
	u.client = srv.Client()
	u.baseURL = srv.URL
	return u
}

func TestLatestRelease(t *testing.T) {
	u := releaseServer(t, http.StatusOK, releasesJSON)
	rel, err := u.latest()
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, semver.MustParse("1.10.0"), rel.Version)
	assert.Equal(t, "https://example.com/1.10.0/notes.txt", rel.AssetURL)
}

func TestLatestReleasePrefersPlatformAsset(t *testing.T) {
	u := releaseServer(t, http.StatusOK, `[{"tag_name": "upscale-v1.2.0", "assets": [
		{"name": "checksums.txt", "browser_download_url": "a"},
		{"name": "upscale_linux_amd64.tar.gz", "browser_download_url": "b"}]}]`)
	rel, err := u.latest()
	require.NoError(t, err)
	assert.Equal(t, "b", rel.AssetURL)
}

func TestLatestReleaseErrors(t *testing.T) {
	u := releaseServer(t, http.StatusForbidden, "rate limited")
	_, err := u.latest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403: rate limited")

	u = releaseServer(t, http.StatusOK, "{")
	_, err = u.latest()
	assert.ErrorContains(t, err, "decode")

	u = releaseServer(t, http.StatusOK, `[{"tag_name": "nightly"}]`)
	rel, err := u.latest()
	require.NoError(t, err)
	assert.Nil(t, rel)
}

func TestCheckForUpdates(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	cases := []struct {
		version string
		want    string
	}{
		{"1.10.0", "already running the latest version"},
		{"v2.0.0", "already running the latest version"},
		{"1.9.3", "Latest version: 1.10.0"},
	}
	for _, tc := range cases {
		Version = tc.version
		var out, errOut bytes.Buffer
		a := newApp(strings.NewReader(""), &out, &errOut)
		err := a.checkForUpdates(releaseServer(t, http.StatusOK, releasesJSON), false)
		require.NoError(t, err)
		assert.Contains(t, out.String(), tc.want, tc.version)
		assert.Contains(t, out.String(), "Current version: "+tc.version)
	}
}

func TestCheckForUpdatesDeclined(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "1.0.0"

	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader("n\n"), &out, &errOut)
	require.NoError(t, a.checkForUpdates(releaseServer(t, http.StatusOK, releasesJSON), true))
	assert.Contains(t, out.String(), "Update now? (y/N)")
	assert.Contains(t, out.String(), "Update cancelled.")
}

func TestCheckForUpdatesUnparsableVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "dev"

	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(""), &out, &errOut)
	require.NoError(t, a.checkForUpdates(releaseServer(t, http.StatusOK, releasesJSON), false))
	assert.Contains(t, errOut.String(), "Could not parse current version")
	assert.Contains(t, out.String(), "Latest version: 1.10.0")
}
