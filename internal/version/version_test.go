// Package version_test provides tests for version management functionality.
package version

import (
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	if got := GetVersion(); got != Version {
		t.Errorf("GetVersion() = %q, want %q", got, Version)
	}
}

func TestGetBaseVersion(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{
			name:     "plain version",
			version:  "0.1.0",
			expected: "0.1.0",
		},
		{
			name:     "version with build metadata",
			version:  "0.1.0+42.abc1234",
			expected: "0.1.0",
		},
		{
			name:     "prerelease version",
			version:  "0.2.0-rc.1",
			expected: "0.2.0",
		},
		{
			name:     "invalid version returned as-is",
			version:  "not-a-version",
			expected: "not-a-version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			if got := GetBaseVersion(); got != tt.expected {
				t.Errorf("GetBaseVersion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetBuildMetadata(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{
			name:     "no metadata",
			version:  "0.1.0",
			expected: "",
		},
		{
			name:     "commit count and hash",
			version:  "0.1.0+42.abc1234",
			expected: "42.abc1234",
		},
		{
			name:     "invalid version",
			version:  "invalid",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			if got := GetBuildMetadata(); got != tt.expected {
				t.Errorf("GetBuildMetadata() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	info, err := GetInfo()
	if err != nil {
		t.Fatalf("GetInfo() returned error: %v", err)
	}

	if info.Version != Version {
		t.Errorf("Info.Version = %q, want %q", info.Version, Version)
	}
	if info.SemVer == nil {
		t.Error("Info.SemVer should not be nil")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Info.Platform = %q, want GOOS/GOARCH form", info.Platform)
	}
}

func TestGetInfoInvalidVersion(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	Version = "definitely-not-semver"
	if _, err := GetInfo(); err == nil {
		t.Error("GetInfo() should fail for an invalid version")
	}
}

func TestGetFormattedVersion(t *testing.T) {
	originalCommit := GitCommit
	originalDate := BuildDate
	defer func() {
		GitCommit = originalCommit
		BuildDate = originalDate
	}()

	GitCommit = "abc1234567890"
	BuildDate = "2026-08-29"

	formatted := GetFormattedVersion()
	if !strings.Contains(formatted, "Buy Xtra v"+Version) {
		t.Errorf("formatted version %q missing application name and version", formatted)
	}
	if !strings.Contains(formatted, "commit abc1234") {
		t.Errorf("formatted version %q should contain the short commit hash", formatted)
	}
	if !strings.Contains(formatted, "built 2026-08-29") {
		t.Errorf("formatted version %q should contain the build date", formatted)
	}
}

func TestGetFormattedVersionUnknownBuildInfo(t *testing.T) {
	originalCommit := GitCommit
	originalDate := BuildDate
	defer func() {
		GitCommit = originalCommit
		BuildDate = originalDate
	}()

	GitCommit = "unknown"
	BuildDate = "unknown"

	formatted := GetFormattedVersion()
	if strings.Contains(formatted, "commit") || strings.Contains(formatted, "built") {
		t.Errorf("formatted version %q should omit unknown build info", formatted)
	}
}

func TestGetDetailedVersion(t *testing.T) {
	detailed := GetDetailedVersion()

	for _, want := range []string{"Buy Xtra v", "Git Commit:", "Build Date:", "Go Version:", "Platform:"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed version missing %q:\n%s", want, detailed)
		}
	}
}

func TestValidateVersion(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	Version = "0.1.0"
	if err := ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion() failed for valid version: %v", err)
	}

	Version = "bogus"
	if err := ValidateVersion(); err == nil {
		t.Error("ValidateVersion() should fail for invalid version")
	}
}
