// SPDX-License-Identifier: MPL-2.0

// Package pkgmgr turns "install these packages" into the right command for
// the host's package manager. Supported platforms are entries in a table
// keyed by {OS kind, package manager kind}; adding a platform means adding
// an entry, not another branch.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stackup-dev/stackup/internal/hostenv"
	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/pkg/platform"
)

var (
	// ErrNoPackages is returned when Install is called with an empty list.
	ErrNoPackages = errors.New("no packages to install")
	// ErrSudoUnavailable is returned when root is needed and sudo is missing.
	ErrSudoUnavailable = errors.New("root privileges required but sudo is not on PATH")
)

type (
	// Key selects a table entry.
	Key struct {
		OS platform.OSKind
		PM platform.PackageManagerKind
	}

	// Entry describes how to drive one package manager on one OS.
	Entry struct {
		// Binary is the manager executable.
		Binary string
		// InstallArgs precede the package names.
		InstallArgs []string
		// RefreshArgs, when set, refresh the package index. The refresh is
		// attempted at most once per Table, before the first install.
		RefreshArgs []string
		// NeedsRoot prefixes commands with sudo unless the run is privileged.
		NeedsRoot bool
		// Env is appended to the inherited environment.
		Env []string
	}

	// Table is the dispatch table plus the per-run refresh bookkeeping.
	// A Table is meant to live for exactly one provisioning run.
	Table struct {
		entries map[Key]Entry
		runner  procexec.Runner

		mu        sync.Mutex
		refreshed map[Key]bool
	}

	// Installer installs packages with one table entry.
	Installer struct {
		key   Key
		entry Entry
		env   hostenv.Environment
		table *Table
	}
)

// DefaultEntries returns the built-in platform table.
func DefaultEntries() map[Key]Entry {
	apt := Entry{
		Binary:      "apt-get",
		InstallArgs: []string{"install", "-y"},
		RefreshArgs: []string{"update"},
		NeedsRoot:   true,
		Env:         []string{"DEBIAN_FRONTEND=noninteractive"},
	}
	dnf := Entry{Binary: "dnf", InstallArgs: []string{"install", "-y"}, NeedsRoot: true}
	pacman := Entry{Binary: "pacman", InstallArgs: []string{"-S", "--needed", "--noconfirm"}, NeedsRoot: true}
	brew := Entry{Binary: "brew", InstallArgs: []string{"install"}, Env: []string{"HOMEBREW_NO_AUTO_UPDATE=1"}}

	return map[Key]Entry{
		{platform.OSLinux, platform.PackageManagerApt}:     apt,
		{platform.OSLinux, platform.PackageManagerDnf}:     dnf,
		{platform.OSLinux, platform.PackageManagerPacman}:  pacman,
		{platform.OSLinux, platform.PackageManagerBrew}:    brew,
		{platform.OSMacOS, platform.PackageManagerBrew}:    brew,
		{platform.OSWindows, platform.PackageManagerChoco}: {Binary: "choco", InstallArgs: []string{"install", "-y", "--no-progress"}},
		{platform.OSWindows, platform.PackageManagerScoop}: {Binary: "scoop", InstallArgs: []string{"install"}},
	}
}

// NewTable builds a Table over entries; nil entries means DefaultEntries.
func NewTable(runner procexec.Runner, entries map[Key]Entry) *Table {
	if entries == nil {
		entries = DefaultEntries()
	}
	return &Table{
		entries:   entries,
		runner:    runner,
		refreshed: make(map[Key]bool),
	}
}

// Lookup returns the Installer for env, or false when the host has no
// supported manager (including PackageManagerNone).
func (t *Table) Lookup(env hostenv.Environment) (*Installer, bool) {
	key := Key{OS: env.OS, PM: env.PackageManager}
	entry, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	return &Installer{key: key, entry: entry, env: env, table: t}, true
}

// Kind returns the package manager the installer drives.
func (i *Installer) Kind() platform.PackageManagerKind {
	return i.key.PM
}

// InstallCommand returns the command Install would run for pkgs.
func (i *Installer) InstallCommand(pkgs []string) procexec.Command {
	args := append(append([]string{}, i.entry.InstallArgs...), pkgs...)
	return i.command(args)
}

// Install refreshes the index if the entry asks for it and this is the
// first install of the run, then installs pkgs. Nothing is retried.
func (i *Installer) Install(ctx context.Context, pkgs []string) procexec.Result {
	if len(pkgs) == 0 {
		return procexec.Result{ExitCode: 1, Err: ErrNoPackages}
	}
	if i.needsSudo() {
		if _, err := i.table.runner.LookPath("sudo"); err != nil {
			return procexec.Result{ExitCode: 1, Err: ErrSudoUnavailable}
		}
	}

	if res, ran := i.refreshOnce(ctx); ran && !res.Success() {
		if res.Err == nil {
			res.Err = fmt.Errorf("refresh package index: %w", res.AsError())
		}
		return res
	}

	return i.table.runner.Run(ctx, i.InstallCommand(pkgs))
}

func (i *Installer) refreshOnce(ctx context.Context) (procexec.Result, bool) {
	if len(i.entry.RefreshArgs) == 0 {
		return procexec.Result{}, false
	}

	i.table.mu.Lock()
	done := i.table.refreshed[i.key]
	i.table.refreshed[i.key] = true
	i.table.mu.Unlock()
	if done {
		return procexec.Result{}, false
	}

	return i.table.runner.Run(ctx, i.command(i.entry.RefreshArgs)), true
}

func (i *Installer) needsSudo() bool {
	return i.entry.NeedsRoot && !i.env.Privileged
}

func (i *Installer) command(args []string) procexec.Command {
	cmd := procexec.Command{Name: i.entry.Binary, Args: args}
	if len(i.entry.Env) > 0 {
		cmd.Env = procexec.Inherit(i.entry.Env...)
	}
	if i.needsSudo() {
		sudoArgs := []string{}
		// sudo resets the environment; pass the entry's variables explicitly.
		sudoArgs = append(sudoArgs, i.entry.Env...)
		sudoArgs = append(sudoArgs, i.entry.Binary)
		cmd = procexec.Command{Name: "sudo", Args: append(sudoArgs, args...)}
	}
	return cmd
}
