// SPDX-License-Identifier: MPL-2.0

package hostenv

import "testing"

func TestParseOSRelease(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantID     string
		wantFamily DistroFamily
		wantName   string
	}{
		{"ubuntu", ubuntuOSRelease, "ubuntu", FamilyDebian, "Ubuntu 24.04.1 LTS"},
		{"fedora", "ID=fedora\nNAME=Fedora Linux\n", "fedora", FamilyRHEL, "Fedora Linux"},
		{"rocky via id_like", "ID=\"rocky\"\nID_LIKE=\"rhel centos fedora\"\n", "rocky", FamilyRHEL, "rocky"},
		{"unknown derivative via id_like", "ID=mydistro\nID_LIKE=\"ubuntu debian\"\n", "mydistro", FamilyDebian, "mydistro"},
		{"manjaro", "ID=manjaro\nID_LIKE=arch\n", "manjaro", FamilyArch, "manjaro"},
		{"opensuse tumbleweed", "ID=\"opensuse-tumbleweed\"\nID_LIKE=\"opensuse suse\"\n", "opensuse-tumbleweed", FamilySUSE, "opensuse-tumbleweed"},
		{"alpine single quotes", "ID='alpine'\nPRETTY_NAME='Alpine Linux v3.20'\n", "alpine", FamilyAlpine, "Alpine Linux v3.20"},
		{"comments and junk", "# comment\n\nnot a pair\nID=nixos\n", "nixos", FamilyUnknown, "nixos"},
		{"empty", "", "unknown", FamilyUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := ParseOSRelease([]byte(tt.data))
			if d.ID != tt.wantID || d.Family != tt.wantFamily || d.DisplayName() != tt.wantName {
				t.Errorf("ParseOSRelease() = %+v (display %q), want id=%q family=%q name=%q",
					d, d.DisplayName(), tt.wantID, tt.wantFamily, tt.wantName)
			}
		})
	}
}
