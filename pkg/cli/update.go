package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/sirupsen/logrus"
)

const (
	updateRepo       = "Fepozopo/upscale"
	githubAPIBaseURL = "https://api.github.com"
)

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// updater looks up releases through the GitHub REST API. The tag is
// searched for a semver substring, so tags like "upscale-v1.2.0" work.
type updater struct {
	client  *http.Client
	baseURL string
	repo    string
}

func newUpdater() *updater {
	return &updater{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: githubAPIBaseURL,
		repo:    updateRepo,
	}
}

// latest returns the highest published, non-prerelease release, or nil
// when there is none.
func (u *updater) latest() (*selfupdate.Release, error) {
	resp, err := u.client.Get(fmt.Sprintf("%s/repos/%s/releases", u.baseURL, u.repo))
	if err != nil {
		return nil, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var releases []githubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var best *selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := releaseVersion(r)
		if !ok {
			continue
		}
		if best != nil && !v.GT(best.Version) {
			continue
		}
		best = &selfupdate.Release{
			Version:  v,
			AssetURL: pickAsset(r),
			Name:     r.Name,
			RepoName: u.repo,
		}
	}
	return best, nil
}

func releaseVersion(r githubRelease) (semver.Version, bool) {
	match := semverRe.FindString(r.TagName)
	if match == "" {
		match = semverRe.FindString(r.Name)
	}
	if match == "" {
		return semver.Version{}, false
	}
	v, err := semver.Parse(strings.TrimPrefix(match, "v"))
	return v, err == nil
}

// pickAsset prefers the asset built for a known platform and falls back to
// the first one.
func pickAsset(r githubRelease) string {
	platforms := []string{"darwin", "linux", "windows", "amd64", "arm64"}
	for _, a := range r.Assets {
		name := strings.ToLower(a.Name)
		if slices.ContainsFunc(platforms, func(p string) bool { return strings.Contains(name, p) }) {
			return a.BrowserDownloadURL
		}
	}
	if len(r.Assets) > 0 {
		return r.Assets[0].BrowserDownloadURL
	}
	return ""
}

// checkForUpdates reports the newest release and, after confirmation,
// replaces the running binary and restarts it.
func (a *App) checkForUpdates(u *updater, install bool) error {
	fmt.Fprintf(a.out, "Current version: %s\n", Version)
	latest, err := u.latest()
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if latest == nil {
		fmt.Fprintf(a.out, "No releases found for %s.\n", u.repo)
		return nil
	}
	fmt.Fprintf(a.out, "Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(Version, "v"))
	if perr != nil {
		a.log.WithError(perr).WithField("version", Version).Warn("Could not parse current version")
	} else if !latest.Version.GT(current) {
		fmt.Fprintf(a.out, "You are already running the latest version: %s.\n", current)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Fprintf(a.out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}
	if !install {
		return nil
	}

	ok, err := a.prompt.Confirm(fmt.Sprintf("A new version (%s) is available. Update now?", latest.Version), false)
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if !ok {
		fmt.Fprintln(a.out, "Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	a.log.WithFields(logrus.Fields{"version": latest.Version.String(), "asset": latest.AssetURL}).Info("Updating")
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	// Exec only returns on failure; then start the new binary as a child.
	argv := append([]string{exe}, os.Args[1:]...)
	if err := syscall.Exec(exe, argv, os.Environ()); err != nil {
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if startErr := cmd.Start(); startErr != nil {
			fmt.Fprintf(a.out, "Updated to version %s; please restart upscale.\n", latest.Version)
			return nil
		}
		os.Exit(0)
	}
	return nil
}
