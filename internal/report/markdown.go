// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/stackup-dev/stackup/internal/provision"
)

// Markdown renders the report for the terminal markdown renderer.
func (r *Report) Markdown() string {
	var b strings.Builder

	verdict := "succeeded"
	if r.Failed() {
		verdict = "failed"
	}
	fmt.Fprintf(&b, "# Last run %s\n\n", verdict)
	fmt.Fprintf(&b, "- **Run:** `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- **Started:** %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "- **Duration:** %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintf(&b, "- **Host:** %s\n", r.Env.Describe())
	if r.LogFile != "" {
		fmt.Fprintf(&b, "- **Log:** `%s`\n", r.LogFile)
	}
	fmt.Fprintf(&b, "- **Summary:** %s\n\n", r.Summary)

	b.WriteString("## Tools\n\n| Tool | Status | Message |\n|---|---|---|\n")
	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", o.Tool, statusLabel(o.Status), escapeCell(o.Message))
	}

	if r.Build != nil {
		b.WriteString("\n## Build\n\n")
		if r.Build.OK && r.Build.Artifacts != nil {
			fmt.Fprintf(&b, "- Bundle: `%s`\n- Stylesheet: `%s`\n- HTML: `%s`\n",
				r.Build.Artifacts.Bundle, r.Build.Artifacts.Stylesheet, r.Build.Artifacts.HTML)
		} else {
			fmt.Fprintf(&b, "Stage **%s** failed: %s\n", r.Build.Stage, r.Build.Error)
		}
	}
	return b.String()
}

func statusLabel(s provision.Status) string {
	switch s {
	case provision.StatusSuccess:
		return "✔ success"
	case provision.StatusWarning:
		return "⚠ warning"
	case provision.StatusError:
		return "✘ error"
	default:
		return "– skipped"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
