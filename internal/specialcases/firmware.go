package specialcases

import (
	"context"

	"github.com/lanternops/rhelconvert/internal/logging"
)

const (
	iwl7260Firmware  = "iwl7260-firmware"
	iwlax2xxFirmware = "iwlax2xx-firmware"
)

// RemoveIwlax2xxFirmware resolves a file conflict on Oracle Linux 8.
//
// There iwlax2xx-firmware is a dependency of iwl7260-firmware, while on RHEL
// its files ship inside iwl7260-firmware itself. Replacing iwl7260-firmware
// with the RHEL build then conflicts on those files, so iwlax2xx-firmware is
// removed beforehand without touching its dependents.
//
// See https://bugzilla.redhat.com/show_bug.cgi?id=2078916
func (r *Resolver) RemoveIwlax2xxFirmware(ctx context.Context) {
	iwl7260 := r.isInstalled(ctx, iwl7260Firmware)
	iwlax2xx := r.isInstalled(ctx, iwlax2xxFirmware)

	r.log.Info("Checking if the iwl7260-firmware and iwlax2xx-firmware packages are installed.")

	if r.sys.OSID() != "oracle" || r.sys.MajorVersion() != 8 {
		r.log.Info("Relevant to Oracle Linux 8 only. Skipping.")
		return
	}

	if !iwl7260 || !iwlax2xx {
		r.log.Info("The iwl7260-firmware and iwlax2xx-firmware packages are not both installed. Nothing to do.")
		return
	}

	r.log.Info("Removing the iwlax2xx-firmware package. Its content is provided by the RHEL iwl7260-firmware package.")
	result, err := r.runner.Run(ctx, []string{"rpm", "-e", "--nodeps", iwlax2xxFirmware})
	if err != nil || result.ExitCode != 0 {
		r.log.Error("Unable to remove the package iwlax2xx-firmware.", "exitCode", result.ExitCode, logging.KeyError, err)
	}
}
