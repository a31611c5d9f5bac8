// Package systeminfo detects the running OS and queries the rpm database.
package systeminfo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/lanternops/rhelconvert/internal/executor"
	"github.com/lanternops/rhelconvert/internal/logging"
)

var log = logging.L("systeminfo")

// Version is an OS release version such as 8.9.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion reads an OS release version. Only the major and minor parts
// are kept; "8" parses as 8.0.
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("parse OS version %q: %w", s, err)
	}
	return Version{Major: int(v.Major()), Minor: int(v.Minor())}, nil
}

// SystemInfo describes the host being converted.
type SystemInfo struct {
	// ID is the lowercase distribution id, e.g. "oracle", "centos", "rocky".
	ID      string
	Name    string
	Version Version
	Arch    string

	runner executor.Runner
}

// Collect gathers OS details from the host. The runner is used for rpm queries.
func Collect(ctx context.Context, runner executor.Runner) (*SystemInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}

	version, err := ParseVersion(info.PlatformVersion)
	if err != nil {
		return nil, err
	}

	si := &SystemInfo{
		ID:      strings.ToLower(info.Platform),
		Name:    info.Platform,
		Version: version,
		Arch:    info.KernelArch,
		runner:  runner,
	}
	log.Debug("detected system", "id", si.ID, "version", si.Version.String(), "arch", si.Arch)
	return si, nil
}

// New builds a SystemInfo from known values.
func New(id string, version Version, runner executor.Runner) *SystemInfo {
	return &SystemInfo{ID: id, Name: id, Version: version, runner: runner}
}

// OSID returns the distribution id.
func (s *SystemInfo) OSID() string { return s.ID }

// MajorVersion returns the OS major version.
func (s *SystemInfo) MajorVersion() int { return s.Version.Major }

// IsRPMInstalled reports whether the rpm database has a package with the
// given name. An rpm that exits non-zero means "not installed"; only a
// failure to run rpm at all is an error.
func (s *SystemInfo) IsRPMInstalled(ctx context.Context, name string) (bool, error) {
	if s.runner == nil {
		return false, fmt.Errorf("no command runner configured")
	}
	result, err := s.runner.Run(ctx, []string{"rpm", "-q", name})
	if err != nil {
		return false, fmt.Errorf("query rpm %s: %w", name, err)
	}
	return result.ExitCode == 0, nil
}

// DetectPackageManager returns "dnf" or "yum", whichever is on PATH first.
func DetectPackageManager() (string, error) {
	if _, err := exec.LookPath("dnf"); err == nil {
		return "dnf", nil
	}
	if _, err := exec.LookPath("yum"); err == nil {
		return "yum", nil
	}
	return "", fmt.Errorf("neither dnf nor yum found")
}
