package output

import (
	"fmt"
	"os"
	"sync"

	"github.com/frederickw082922/crosscheck/internal/checks"
)

// ReportSink collects the whole run and renders it once on Close. Formats:
// markdown, html, json.
type ReportSink struct {
	path   string
	format string
	file   *os.File
	mu     sync.Mutex
	report Report
}

func NewReportSink(path, format string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("a report path is required")
	}
	switch format {
	case "markdown", "html", "json":
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}

	return &ReportSink{
		path:   path,
		format: format,
		file:   f,
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case RunHeader:
		s.report.Run = t.Info
		s.report.Diagnostics = t.Diagnostics
	case checks.CheckResult:
		s.report.Results = append(s.report.Results, t)
	case RunFooter:
		s.report.Totals = t.Totals
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		data []byte
		err  error
	)
	switch s.format {
	case "markdown":
		data = []byte(RenderMarkdown(s.report))
	case "html":
		data = []byte(RenderHTML(s.report))
	case "json":
		data, err = RenderJSON(s.report)
	default:
		err = fmt.Errorf("unsupported report format: %s", s.format)
	}
	if err == nil {
		_, err = s.file.Write(data)
	}

	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
