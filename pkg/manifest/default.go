// SPDX-License-Identifier: MPL-2.0

package manifest

import "github.com/stackup-dev/stackup/pkg/platform"

const (
	npmGlobal       = "npm install -g "
	homebrewInstall = `NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`
	chocoInstall    = `powershell -NoProfile -ExecutionPolicy Bypass -Command "[System.Net.ServicePointManager]::SecurityProtocol = 3072; iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))"`
)

// DefaultTechs are the technologies that get Before/ and After/ directories.
var DefaultTechs = []string{"PHP", "Laravel", "Hack", "TypeScript", "CSS", "HTMX", "SQL"}

// Default returns the built-in manifest. Tools are ordered so that package
// managers come first, then runtimes, then the toolchains and installers that
// depend on them.
func Default() *Manifest {
	return &Manifest{
		Tools: []ToolSpec{
			{
				Name:        "homebrew",
				Description: "Homebrew package manager",
				Platforms:   []platform.OSKind{platform.OSMacOS},
				Probe:       Probe{Command: "brew"},
				Install:     map[string]InstallAction{"none": {Script: homebrewInstall}},
			},
			{
				Name:        "chocolatey",
				Description: "Chocolatey package manager",
				Platforms:   []platform.OSKind{platform.OSWindows},
				Probe:       Probe{Command: "choco"},
				Install:     map[string]InstallAction{"none": {Script: chocoInstall}},
			},
			{
				Name:        "git",
				Description: "Git version control",
				Required:    true,
				Probe:       Probe{Command: "git"},
				Install:     samePackage("git"),
			},
			{
				Name:        "node",
				Description: "Node.js runtime",
				Required:    true,
				MinVersion:  "18",
				Probe:       Probe{Command: "node"},
				Install: map[string]InstallAction{
					"apt":    pkgs("nodejs"),
					"dnf":    pkgs("nodejs"),
					"pacman": pkgs("nodejs"),
					"brew":   pkgs("node"),
					"choco":  pkgs("nodejs-lts"),
					"scoop":  pkgs("nodejs-lts"),
				},
			},
			{
				Name:        "npm",
				Description: "Node.js package manager",
				Required:    true,
				Probe:       Probe{Command: "npm"},
				Install: map[string]InstallAction{
					"apt":    pkgs("npm"),
					"dnf":    pkgs("npm"),
					"pacman": pkgs("npm"),
					"brew":   pkgs("node"),
					"choco":  pkgs("nodejs-lts"),
					"scoop":  pkgs("nodejs-lts"),
				},
			},
			{
				Name:        "php",
				Description: "PHP interpreter",
				Required:    true,
				MinVersion:  "8.1",
				Probe:       Probe{Command: "php"},
				Install: map[string]InstallAction{
					"apt":    pkgs("php-cli", "php-xml", "php-mbstring", "php-curl", "unzip"),
					"dnf":    pkgs("php-cli", "php-xml", "php-mbstring"),
					"pacman": pkgs("php"),
					"brew":   pkgs("php"),
					"choco":  pkgs("php"),
					"scoop":  pkgs("php"),
				},
			},
			{
				Name:        "composer",
				Description: "PHP dependency manager",
				Required:    true,
				Probe:       Probe{Command: "composer"},
				Install:     samePackage("composer"),
			},
			{
				Name:        "laravel",
				Description: "Laravel installer",
				Probe:       Probe{Command: "laravel"},
				Install: map[string]InstallAction{
					AnyPackageManager: {Script: "composer global require laravel/installer"},
				},
			},
			{
				Name:        "hhvm",
				Description: "HipHop Virtual Machine for Hack",
				Platforms:   []platform.OSKind{platform.OSLinux, platform.OSMacOS},
				Probe:       Probe{Command: "hhvm", VersionPattern: `HipHop VM (?P<version>\d+\.\d+\.\d+)`},
				Install: map[string]InstallAction{
					"apt":  pkgs("hhvm"),
					"brew": {Script: "brew tap hhvm/hhvm && brew install hhvm"},
				},
			},
			{
				Name:        "typescript",
				Description: "TypeScript compiler",
				Required:    true,
				Probe:       Probe{Command: "tsc"},
				Install:     map[string]InstallAction{AnyPackageManager: {Script: npmGlobal + "typescript"}},
			},
			{
				Name:        "sass",
				Description: "Sass preprocessor",
				Probe:       Probe{Command: "sass"},
				Install:     map[string]InstallAction{AnyPackageManager: {Script: npmGlobal + "sass"}},
			},
			{
				Name:        "less",
				Description: "Less preprocessor",
				Probe:       Probe{Command: "lessc"},
				Install:     map[string]InstallAction{AnyPackageManager: {Script: npmGlobal + "less"}},
			},
			{
				Name:        "tailwindcss",
				Description: "Tailwind CSS CLI",
				Required:    true,
				Probe:       Probe{Command: "tailwindcss", Args: []string{"--help"}},
				Install:     map[string]InstallAction{AnyPackageManager: {Script: npmGlobal + "tailwindcss@3"}},
			},
			{
				Name:        "mysql",
				Description: "MySQL/MariaDB client",
				Probe:       Probe{Command: "mysql"},
				Install: map[string]InstallAction{
					"apt":    pkgs("default-mysql-client"),
					"dnf":    pkgs("mariadb"),
					"pacman": pkgs("mariadb-clients"),
					"brew":   pkgs("mysql"),
					"choco":  pkgs("mysql-cli"),
					"scoop":  pkgs("mysql"),
				},
			},
			{
				Name:        "psql",
				Description: "PostgreSQL client",
				Probe:       Probe{Command: "psql"},
				Install: map[string]InstallAction{
					"apt":    pkgs("postgresql-client"),
					"dnf":    pkgs("postgresql"),
					"pacman": pkgs("postgresql"),
					"brew":   pkgs("postgresql"),
					"choco":  pkgs("postgresql"),
					"scoop":  pkgs("postgresql"),
				},
			},
			{
				Name:        "sqlite",
				Description: "SQLite shell",
				Probe:       Probe{Command: "sqlite3"},
				Install: map[string]InstallAction{
					"apt":    pkgs("sqlite3"),
					"dnf":    pkgs("sqlite"),
					"pacman": pkgs("sqlite"),
					"brew":   pkgs("sqlite"),
					"choco":  pkgs("sqlite"),
					"scoop":  pkgs("sqlite"),
				},
			},
		},
		Layout: Layout{Techs: append([]string(nil), DefaultTechs...)},
	}
}

func pkgs(names ...string) InstallAction {
	return InstallAction{Packages: names}
}

func samePackage(name string) map[string]InstallAction {
	out := make(map[string]InstallAction, len(platform.PackageManagerKinds()))
	for _, pm := range platform.PackageManagerKinds() {
		if pm == platform.PackageManagerNone {
			continue
		}
		out[string(pm)] = pkgs(name)
	}
	return out
}
