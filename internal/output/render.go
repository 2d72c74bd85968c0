package output

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// Report is the aggregate a report sink renders once the run is complete.
type Report struct {
	Run         model.RunInfo        `json:"run"`
	Diagnostics []checks.Finding     `json:"diagnostics,omitempty"`
	Results     []checks.CheckResult `json:"results"`
	Totals      Totals               `json:"totals"`
}

// maxFindingRows caps per-check findings tables in rendered Markdown and
// HTML reports. The JSON renderer is uncapped.
const maxFindingRows = 200

var statusBadges = map[checks.Status]string{
	checks.StatusPass: "#28a745",
	checks.StatusFail: "#dc3545",
	checks.StatusWarn: "#ffc107",
	checks.StatusSkip: "#6c757d",
}

// RenderMarkdown renders the report as a standalone Markdown document.
func RenderMarkdown(r Report) string {
	var b strings.Builder
	b.WriteString("# Benchmark consistency report\n\n")

	b.WriteString("| | |\n|---|---|\n")
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "| %s | %s |\n", key, value)
		}
	}
	row("Remediation", repoCell(r.Run.RemediationRepo, r.Run.RemediationBranch))
	row("Audit", repoCell(r.Run.AuditRepo, r.Run.AuditBranch))
	row("Family", string(r.Run.Family))
	row("Prefix", codeCell(r.Run.Prefix))
	row("Rule-ID prefix", codeCell(r.Run.RuleIDPrefix))
	row("Version", mdEscape(r.Run.Version))
	row("Tool", "crosscheck "+r.Run.ToolVersion)
	if !r.Run.GeneratedAt.IsZero() {
		row("Generated", r.Run.GeneratedAt.Format(time.RFC3339))
	}
	b.WriteString("\n")

	if len(r.Diagnostics) > 0 {
		b.WriteString("## Detection notes\n\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", mdEscape(d.Description))
		}
		b.WriteString("\n")
	}

	t := TotalsOf(r.Results)
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "%d checks: %d pass, %d fail, %d warn, %d skip.\n\n", len(r.Results), t.Pass, t.Fail, t.Warn, t.Skip)
	b.WriteString("| Check | Status | Findings |\n|---|---|---|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| `%s` | %s | %d |\n", res.Key, res.Status, len(res.Findings))
	}
	b.WriteString("\n")

	wroteHeading := false
	for _, res := range r.Results {
		if len(res.Findings) == 0 {
			continue
		}
		if !wroteHeading {
			b.WriteString("## Findings\n\n")
			wroteHeading = true
		}
		fmt.Fprintf(&b, "### %s (%s)\n\n", mdEscape(res.Name), res.Status)
		b.WriteString("| Location | Severity | Description |\n|---|---|---|\n")
		shown := len(res.Findings)
		if shown > maxFindingRows {
			shown = maxFindingRows
		}
		for _, f := range res.Findings[:shown] {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", codeCell(location(f)), f.Severity, mdEscape(f.Description))
		}
		if shown < len(res.Findings) {
			fmt.Fprintf(&b, "\n_Showing first %d of %d findings._\n", shown, len(res.Findings))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML renders the report as a self-contained HTML page.
func RenderHTML(r Report) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Benchmark consistency report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2328; }
table { border-collapse: collapse; margin: 1rem 0; width: 100%; }
th, td { border: 1px solid #d1d9e0; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; }
th { background: #f6f8fa; }
code { background: #f6f8fa; padding: 0.1rem 0.3rem; border-radius: 3px; }
.badge { color: #fff; border-radius: 3px; padding: 0.1rem 0.5rem; font-weight: 600; }
.note { color: #59636e; }
</style>
</head>
<body>
`)
	b.WriteString("<h1>Benchmark consistency report</h1>\n")

	b.WriteString("<table>\n")
	row := func(key, rawHTML string) {
		if rawHTML != "" {
			fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>\n", key, rawHTML)
		}
	}
	row("Remediation", htmlRepoCell(r.Run.RemediationRepo, r.Run.RemediationBranch))
	row("Audit", htmlRepoCell(r.Run.AuditRepo, r.Run.AuditBranch))
	row("Family", html.EscapeString(string(r.Run.Family)))
	row("Prefix", htmlCode(r.Run.Prefix))
	row("Rule-ID prefix", htmlCode(r.Run.RuleIDPrefix))
	row("Version", html.EscapeString(r.Run.Version))
	row("Tool", html.EscapeString("crosscheck "+r.Run.ToolVersion))
	if !r.Run.GeneratedAt.IsZero() {
		row("Generated", r.Run.GeneratedAt.Format(time.RFC3339))
	}
	b.WriteString("</table>\n")

	if len(r.Diagnostics) > 0 {
		b.WriteString("<h2>Detection notes</h2>\n<ul>\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "<li class=\"note\">%s</li>\n", html.EscapeString(d.Description))
		}
		b.WriteString("</ul>\n")
	}

	t := TotalsOf(r.Results)
	b.WriteString("<h2>Summary</h2>\n")
	fmt.Fprintf(&b, "<p>%d checks: %d pass, %d fail, %d warn, %d skip.</p>\n", len(r.Results), t.Pass, t.Fail, t.Warn, t.Skip)
	b.WriteString("<table>\n<tr><th>Check</th><th>Status</th><th>Findings</th></tr>\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "<tr><td><code>%s</code></td><td>%s</td><td>%d</td></tr>\n",
			html.EscapeString(res.Key), htmlBadge(res.Status), len(res.Findings))
	}
	b.WriteString("</table>\n")

	wroteHeading := false
	for _, res := range r.Results {
		if len(res.Findings) == 0 {
			continue
		}
		if !wroteHeading {
			b.WriteString("<h2>Findings</h2>\n")
			wroteHeading = true
		}
		fmt.Fprintf(&b, "<h3>%s %s</h3>\n", html.EscapeString(res.Name), htmlBadge(res.Status))
		b.WriteString("<table>\n<tr><th>Location</th><th>Severity</th><th>Description</th></tr>\n")
		shown := len(res.Findings)
		if shown > maxFindingRows {
			shown = maxFindingRows
		}
		for _, f := range res.Findings[:shown] {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				htmlCode(location(f)), html.EscapeString(string(f.Severity)), html.EscapeString(f.Description))
		}
		b.WriteString("</table>\n")
		if shown < len(res.Findings) {
			fmt.Fprintf(&b, "<p class=\"note\">Showing first %d of %d findings.</p>\n", shown, len(res.Findings))
		}
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// RenderJSON renders the report as indented JSON with a stable field order.
func RenderJSON(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func location(f checks.Finding) string {
	if f.File == "" {
		return ""
	}
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

func repoCell(name, branch string) string {
	if name == "" {
		return ""
	}
	cell := codeCell(name)
	if branch != "" {
		cell += fmt.Sprintf(" (branch %s)", mdEscape(branch))
	}
	return cell
}

func htmlRepoCell(name, branch string) string {
	if name == "" {
		return ""
	}
	cell := htmlCode(name)
	if branch != "" {
		cell += fmt.Sprintf(" (branch %s)", html.EscapeString(branch))
	}
	return cell
}

func codeCell(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

func htmlCode(s string) string {
	if s == "" {
		return ""
	}
	return "<code>" + html.EscapeString(s) + "</code>"
}

func htmlBadge(st checks.Status) string {
	bg, ok := statusBadges[st]
	if !ok {
		bg = statusBadges[checks.StatusSkip]
	}
	return fmt.Sprintf("<span class=\"badge\" style=\"background:%s\">%s</span>", bg, html.EscapeString(string(st)))
}

// mdEscape keeps free text from breaking Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
