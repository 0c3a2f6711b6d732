// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}
	if got := len(Values()); got != int(PermissionDeniedId) {
		t.Errorf("len(Values()) = %d, want %d", got, PermissionDeniedId)
	}
}

func TestGet(t *testing.T) {
	for id := ManifestNotFoundId; id <= PermissionDeniedId; id++ {
		got := Get(id)
		if got == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if got.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, got.Id())
		}
	}
	if Get(0) != nil || Get(PermissionDeniedId+1) != nil {
		t.Error("Get() should return nil for unknown ids")
	}
}

func TestValues_Order(t *testing.T) {
	for i, iss := range Values() {
		if want := Id(i + 1); iss.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), want)
		}
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	tests := []struct {
		id   Id
		want string
	}{
		{ManifestNotFoundId, "No manifest found"},
		{PackageManagerMissingId, "No package manager detected"},
		{ProvisioningFailedId, "stackup report"},
		{BuildFailedId, "prepare, typescript, css, html"},
	}
	for _, tt := range tests {
		if msg := string(Get(tt.id).MarkdownMsg()); !strings.Contains(msg, tt.want) {
			t.Errorf("issue %d markdown missing %q", tt.id, tt.want)
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	iss := Get(ManifestNotFoundId)
	links := iss.DocLinks()
	if len(links) == 0 {
		t.Fatal("DocLinks() is empty")
	}
	links[0] = "mutated"
	if iss.DocLinks()[0] == "mutated" {
		t.Error("DocLinks() returned the internal slice")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotIn, gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotIn, gotStyle = in, stylePath
		return "rendered", nil
	}

	out, err := Get(SudoUnavailableId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out != "rendered" || gotStyle != "notty" {
		t.Errorf("Render() = %q with style %q", out, gotStyle)
	}
	if !strings.Contains(gotIn, "## See also\n\n- <https://www.sudo.ws/docs/man/sudo.man/>") {
		t.Errorf("Render() input missing links section:\n%s", gotIn)
	}

	if _, err := Get(BuildFailedId).Render("notty"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(gotIn, "See also") {
		t.Error("issue without links should not render a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, iss := range Values() {
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no content", iss.Id())
			continue
		}
		if _, err := iss.Render("notty"); err != nil {
			t.Errorf("issue %d failed to render: %v", iss.Id(), err)
		}
	}
}
