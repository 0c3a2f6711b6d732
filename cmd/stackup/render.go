// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/stackup-dev/stackup/internal/config"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown writes md through glamour, falling back to the raw text
// when rendering fails.
func renderMarkdown(w io.Writer, md string, scheme config.ColorScheme) error {
	out, err := glamour.Render(md, scheme.GlamourStyle())
	if err != nil {
		out = md
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// mdCell escapes a value for a markdown table cell.
func mdCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
