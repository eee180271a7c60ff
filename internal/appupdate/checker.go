// Package appupdate asks GitHub whether a newer chatwrapped release exists.
package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultLatestReleaseURL = "https://api.github.com/repos/janekbaraniewski/chatwrapped/releases/latest"
	defaultRequestTimeout   = 1500 * time.Millisecond
	binaryName              = "chatwrapped"
)

type InstallMethod string

const (
	InstallMethodUnknown   InstallMethod = "unknown"
	InstallMethodHomebrew  InstallMethod = "homebrew"
	InstallMethodGoInstall InstallMethod = "go_install"
)

type CheckOptions struct {
	CurrentVersion   string
	ExecutablePath   string
	LatestReleaseURL string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

type Result struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	InstallMethod   InstallMethod
	UpgradeHint     string
}

// Check compares the running version with the latest release. Development
// builds and prereleases are never reported as outdated.
func Check(ctx context.Context, opts CheckOptions) (Result, error) {
	current := normalizeReleaseVersion(opts.CurrentVersion)
	method := detectInstallMethod(resolveExecutablePath(opts.ExecutablePath))
	result := Result{
		CurrentVersion: current,
		InstallMethod:  method,
		UpgradeHint:    upgradeHint(method),
	}
	if current == "" {
		return result, nil
	}

	latest, err := fetchLatestReleaseVersion(ctx, opts, current)
	if err != nil {
		return result, err
	}
	result.LatestVersion = latest
	result.UpdateAvailable = semver.Compare(latest, current) > 0
	return result, nil
}

func fetchLatestReleaseVersion(ctx context.Context, opts CheckOptions, current string) (string, error) {
	latestURL := strings.TrimSpace(opts.LatestReleaseURL)
	if latestURL == "" {
		latestURL = defaultLatestReleaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestURL, nil)
	if err != nil {
		return "", fmt.Errorf("build latest release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", binaryName+"/"+current)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode latest release payload: %w", err)
	}
	latest := normalizeReleaseVersion(release.TagName)
	if latest == "" {
		return "", fmt.Errorf("latest release tag is not a stable semver: %q", release.TagName)
	}
	return latest, nil
}

// normalizeReleaseVersion returns v as "vMAJOR.MINOR.PATCH", or "" for
// anything that is not a stable release.
func normalizeReleaseVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" {
		return ""
	}
	return semver.Canonical(v)
}

func resolveExecutablePath(explicit string) string {
	p := strings.TrimSpace(explicit)
	if p == "" {
		exe, err := os.Executable()
		if err != nil {
			return ""
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		p = exe
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(p)))
}

func detectInstallMethod(path string) InstallMethod {
	switch {
	case path == "":
		return InstallMethodUnknown
	case strings.Contains(path, "/cellar/"+binaryName+"/"), path == "/opt/homebrew/bin/"+binaryName:
		return InstallMethodHomebrew
	case strings.HasSuffix(path, "/go/bin/"+binaryName), strings.HasSuffix(path, "/go/bin/"+binaryName+".exe"):
		return InstallMethodGoInstall
	default:
		return InstallMethodUnknown
	}
}

func upgradeHint(method InstallMethod) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade " + binaryName
	case InstallMethodGoInstall:
		return "go install github.com/janekbaraniewski/chatwrapped/cmd/chatwrapped@latest"
	default:
		return "download the latest release from https://github.com/janekbaraniewski/chatwrapped/releases"
	}
}
