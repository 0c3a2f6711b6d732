// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ManifestInvalidId
	ConfigLoadFailedId
	PackageManagerMissingId
	SudoUnavailableId
	ProvisioningFailedId
	ValidationFailedId
	BuildToolMissingId
	BuildFailedId
	ReportNotFoundId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with glamour using the given style
// ("dark", "light", "notty", "auto" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id:       ManifestNotFoundId,
		docLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
		mdMsg: `
# No manifest found!

stackup looks for a tool manifest before provisioning.

## Search order
1. The ` + "`--manifest`" + ` flag
2. The ` + "`manifest`" + ` key of your config file
3. ` + "`stackup.cue`" + ` in the project directory

When none exists stackup falls back to its built-in tool list.

## Things you can try
- Write the built-in manifest to disk and edit it:
~~~
$ stackup init
~~~
- Or point at an existing one:
~~~
$ stackup --manifest ./tools/stackup.cue
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Manifest could not be parsed!

The manifest is CUE and is checked against the #Manifest schema.

## Common causes
- Unknown field names (the schema is closed)
- A tool without a ` + "`probe`" + ` block
- An install action with both ` + "`packages`" + ` and ` + "`script`" + `

## Minimal tool entry
~~~cue
tools: [{
	name: "git"
	required: true
	probe: command: "git"
	install: apt: packages: ["git"]
}]
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Manifest is invalid!

The manifest parsed, but some entries are inconsistent. Each problem is
listed above with the field that caused it.

## Things you can try
- Give every tool a unique name
- Use versions such as ` + "`18`" + `, ` + "`8.1`" + ` or ` + "`1.2.3`" + ` for ` + "`min_version`" + `
- Check that install scripts are valid POSIX shell`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

stackup reads ` + "`config.cue`" + ` from the working directory or from
the user config directory.

## Things you can try
- Print the effective configuration:
~~~
$ stackup config show
~~~
- Recreate a default file:
~~~
$ stackup config init
~~~`,
	}

	packageManagerMissingIssue = &Issue{
		id: PackageManagerMissingId,
		mdMsg: `
# No package manager detected!

stackup installs tools through the host's package manager
(apt, dnf, pacman, brew, choco or scoop) and found none on PATH.

## Things you can try
- On macOS the manifest's ` + "`homebrew`" + ` entry bootstraps Homebrew
- On Windows the ` + "`chocolatey`" + ` entry bootstraps Chocolatey
- Install the missing tools manually and run stackup again`,
	}

	sudoUnavailableIssue = &Issue{
		id:       SudoUnavailableId,
		extLinks: []HttpLink{"https://www.sudo.ws/docs/man/sudo.man/"},
		mdMsg: `
# Root privileges required!

The detected package manager needs root to install packages, stackup is
not running as root, and ` + "`sudo`" + ` is not available.

## Things you can try
- Run stackup as root (common in containers and CI images)
- Install sudo and make sure it is on PATH`,
	}

	provisioningFailedIssue = &Issue{
		id: ProvisioningFailedId,
		mdMsg: `
# Provisioning finished with errors!

One or more tools could not be installed or failed validation. The log
file lists every step with its outcome.

## Things you can try
- Show the last run:
~~~
$ stackup report
~~~
- Preview what stackup would do:
~~~
$ stackup plan
~~~
- Skip a tool you manage yourself with ` + "`skip_tools`" + ` in config.cue`,
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Required tools are not usable!

After installation stackup runs every required tool's probe. A tool that
installed but cannot run, or reports a version below ` + "`min_version`" + `,
fails validation.

## Things you can try
- Open a new shell so PATH changes from installers take effect
- Check the version printed in the log against the manifest's minimum`,
	}

	buildToolMissingIssue = &Issue{
		id: BuildToolMissingId,
		mdMsg: `
# Build compiler not found!

The build needs the TypeScript compiler and a CSS compiler.

## Things you can try
- Provision them first:
~~~
$ stackup --build
~~~
- Or set ` + "`build.ts_compiler`" + ` / ` + "`build.css_compiler`" + ` in the manifest`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Build failed!

The build runs in order: prepare, typescript, css, html. It stops at the
first failing stage and reports it above.

## Things you can try
- Check that the entry points in the manifest's ` + "`build`" + ` block exist
- Run the failing compiler by hand to see its full output
- Rebuild on change while fixing:
~~~
$ stackup build --watch
~~~`,
	}

	reportNotFoundIssue = &Issue{
		id: ReportNotFoundId,
		mdMsg: `
# No run recorded yet!

` + "`stackup report`" + ` reads the last run from the log directory.

## Things you can try
- Run ` + "`stackup`" + ` once
- Check ` + "`log_dir`" + ` in config.cue`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

stackup could not write to a directory it needs.

## Common causes
- The log directory is owned by another user
- The project directory is read-only

## Things you can try
- Check file and directory permissions
- Point ` + "`log_dir`" + ` at a directory you own`,
	}

	all = []*Issue{
		manifestNotFoundIssue,
		manifestParseErrorIssue,
		manifestInvalidIssue,
		configLoadFailedIssue,
		packageManagerMissingIssue,
		sudoUnavailableIssue,
		provisioningFailedIssue,
		validationFailedIssue,
		buildToolMissingIssue,
		buildFailedIssue,
		reportNotFoundIssue,
		permissionDeniedIssue,
	}
)

// Values returns every catalogued issue in Id order.
func Values() []*Issue {
	return slices.Clone(all)
}

func Get(id Id) *Issue {
	idx := slices.IndexFunc(all, func(i *Issue) bool { return i.id == id })
	if idx < 0 {
		return nil
	}
	return all[idx]
}
