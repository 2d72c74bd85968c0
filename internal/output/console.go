package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/frederickw082922/crosscheck/internal/checks"
)

var statusColors = map[checks.Status]*color.Color{
	checks.StatusPass: color.New(color.FgGreen),
	checks.StatusFail: color.New(color.FgRed),
	checks.StatusWarn: color.New(color.FgYellow),
	checks.StatusSkip: color.New(color.FgHiBlack),
}

func statusColor(st checks.Status) *color.Color {
	if c, ok := statusColors[st]; ok {
		return c
	}
	return color.New()
}

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	results         []checks.CheckResult // For JSON array output
	allowedStatuses map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			s.allowedStatuses[strings.ToUpper(st)] = true
		}
	}

	return s
}

func (s *ConsoleSink) allowed(st checks.Status) bool {
	if len(s.allowedStatuses) == 0 {
		return true
	}
	return s.allowedStatuses[string(st)]
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch s.format {
	case "json":
		r, ok := v.(checks.CheckResult)
		if !ok {
			// Ignore lifecycle values in JSON console mode.
			return nil
		}
		if !s.allowed(r.Status) {
			return nil
		}
		s.results = append(s.results, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
		case RunHeader:
			if err := encoder.Encode(eventFromHeader(t)); err != nil {
				return err
			}
		case RunFooter:
			if err := encoder.Encode(eventFromFooter(t)); err != nil {
				return err
			}
		case checks.CheckResult:
			if !s.allowed(t.Status) {
				return nil
			}
			if err := encoder.Encode(eventFromResult(t)); err != nil {
				return err
			}
		default:
			return nil
		}
		return flushIfPossible(s.writer)
	case "text":
		switch t := v.(type) {
		case RunHeader:
			return s.printHeader(t)
		case checks.CheckResult:
			if !s.allowed(t.Status) {
				return nil
			}
			return s.printResult(t)
		case RunFooter:
			return s.printFooter(t)
		default:
			return nil
		}
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) printHeader(h RunHeader) error {
	info := h.Info
	bold := color.New(color.Bold)
	if _, err := bold.Fprintf(s.writer, "%s <-> %s\n", repoLabel(info.RemediationRepo, info.RemediationBranch), repoLabel(info.AuditRepo, info.AuditBranch)); err != nil {
		return err
	}
	details := fmt.Sprintf("family %s, prefix %s", info.Family, info.Prefix)
	if info.RuleIDPrefix != "" {
		details += fmt.Sprintf(", rule-id prefix %s", info.RuleIDPrefix)
	}
	if info.Version != "" {
		details += fmt.Sprintf(", version %s", info.Version)
	}
	if _, err := fmt.Fprintf(s.writer, "%s\n", details); err != nil {
		return err
	}
	for _, d := range h.Diagnostics {
		if _, err := fmt.Fprintf(s.writer, "note: %s\n", d.Description); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(s.writer); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *ConsoleSink) printResult(r checks.CheckResult) error {
	label := statusColor(r.Status).Sprintf("[%s]", r.Status)
	if _, err := fmt.Fprintf(s.writer, "%s %s", label, r.Key); err != nil {
		return err
	}
	if r.Status != checks.StatusPass && r.Summary != "" {
		if _, err := fmt.Fprintf(s.writer, ": %s", r.Summary); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(s.writer); err != nil {
		return err
	}
	if r.Status != checks.StatusPass {
		for _, f := range r.Findings {
			loc := f.File
			if loc != "" && f.Line > 0 {
				loc = fmt.Sprintf("%s:%d", f.File, f.Line)
			}
			var err error
			if loc != "" {
				_, err = fmt.Fprintf(s.writer, "    %s: %s\n", loc, f.Description)
			} else {
				_, err = fmt.Fprintf(s.writer, "    %s\n", f.Description)
			}
			if err != nil {
				return err
			}
		}
	}
	return flushIfPossible(s.writer)
}

func (s *ConsoleSink) printFooter(f RunFooter) error {
	t := f.Totals
	if _, err := fmt.Fprintf(s.writer, "\n%d pass, %d fail, %d warn, %d skip\n", t.Pass, t.Fail, t.Warn, t.Skip); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.results); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}

func repoLabel(name, branch string) string {
	if branch == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, branch)
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}
