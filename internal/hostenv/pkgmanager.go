// SPDX-License-Identifier: MPL-2.0

package hostenv

import "github.com/stackup-dev/stackup/pkg/platform"

// managerPreference is the fixed probing order per OS. The first manager
// whose binary is on PATH wins.
var managerPreference = map[platform.OSKind][]platform.PackageManagerKind{
	platform.OSLinux: {
		platform.PackageManagerApt,
		platform.PackageManagerDnf,
		platform.PackageManagerPacman,
		platform.PackageManagerBrew,
	},
	platform.OSMacOS: {
		platform.PackageManagerBrew,
	},
	platform.OSWindows: {
		platform.PackageManagerChoco,
		platform.PackageManagerScoop,
	},
}

// managerBinary is the executable probed for each manager.
var managerBinary = map[platform.PackageManagerKind]string{
	platform.PackageManagerApt:    "apt-get",
	platform.PackageManagerDnf:    "dnf",
	platform.PackageManagerPacman: "pacman",
	platform.PackageManagerBrew:   "brew",
	platform.PackageManagerChoco:  "choco",
	platform.PackageManagerScoop:  "scoop",
}

// ManagerBinary returns the executable name probed for kind, or "" for none.
func ManagerBinary(kind platform.PackageManagerKind) string {
	return managerBinary[kind]
}

// ResolvePackageManager returns the first manager in the OS's preference
// order whose binary lookPath can find. PackageManagerNone is a normal
// result, not an error.
func ResolvePackageManager(osKind platform.OSKind, lookPath LookPathFunc) platform.PackageManagerKind {
	if lookPath == nil {
		return platform.PackageManagerNone
	}
	for _, kind := range managerPreference[osKind] {
		if _, err := lookPath(managerBinary[kind]); err == nil {
			return kind
		}
	}
	return platform.PackageManagerNone
}
