// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// Distro families recognized from os-release ID and ID_LIKE.
const (
	FamilyDebian  DistroFamily = "debian"
	FamilyRHEL    DistroFamily = "rhel"
	FamilyArch    DistroFamily = "arch"
	FamilySUSE    DistroFamily = "suse"
	FamilyAlpine  DistroFamily = "alpine"
	FamilyUnknown DistroFamily = "unknown"
)

type (
	// DistroFamily groups Linux distributions that share a package format.
	DistroFamily string

	// Distro is what /etc/os-release says about a Linux host.
	Distro struct {
		ID      string       `toml:"id"`
		Version string       `toml:"version"`
		Name    string       `toml:"name"`
		Family  DistroFamily `toml:"family"`
	}
)

// familyByID maps os-release ID/ID_LIKE tokens to families.
var familyByID = map[string]DistroFamily{
	"debian":      FamilyDebian,
	"ubuntu":      FamilyDebian,
	"linuxmint":   FamilyDebian,
	"pop":         FamilyDebian,
	"raspbian":    FamilyDebian,
	"kali":        FamilyDebian,
	"fedora":      FamilyRHEL,
	"rhel":        FamilyRHEL,
	"centos":      FamilyRHEL,
	"rocky":       FamilyRHEL,
	"almalinux":   FamilyRHEL,
	"amzn":        FamilyRHEL,
	"arch":        FamilyArch,
	"manjaro":     FamilyArch,
	"endeavouros": FamilyArch,
	"opensuse":    FamilySUSE,
	"suse":        FamilySUSE,
	"sles":        FamilySUSE,
	"alpine":      FamilyAlpine,
}

// UnknownDistro is the Distro used when os-release is missing or empty.
func UnknownDistro() Distro {
	return Distro{ID: "unknown", Family: FamilyUnknown}
}

// ParseOSRelease parses os-release(5) content. Unparseable lines are
// skipped; a file without ID yields UnknownDistro.
func ParseOSRelease(data []byte) Distro {
	fields := make(map[string]string)

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = unquote(value)
	}

	id := strings.ToLower(fields["ID"])
	if id == "" {
		return UnknownDistro()
	}

	d := Distro{
		ID:      id,
		Version: fields["VERSION_ID"],
		Name:    fields["PRETTY_NAME"],
		Family:  FamilyUnknown,
	}
	if d.Name == "" {
		d.Name = fields["NAME"]
	}

	candidates := append([]string{id}, strings.Fields(strings.ToLower(fields["ID_LIKE"]))...)
	for _, c := range candidates {
		if fam, ok := familyByID[c]; ok {
			d.Family = fam
			break
		}
		// opensuse-leap, opensuse-tumbleweed
		if strings.HasPrefix(c, "opensuse") {
			d.Family = FamilySUSE
			break
		}
	}
	return d
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') {
		if u, err := strconv.Unquote(`"` + v[1:len(v)-1] + `"`); err == nil {
			return u
		}
		return v[1 : len(v)-1]
	}
	return v
}

// DisplayName prefers PRETTY_NAME and falls back to the ID.
func (d Distro) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
