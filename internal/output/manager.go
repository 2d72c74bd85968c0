package output

import (
	"errors"
	"fmt"
)

// Sink is a destination for run output. Sinks receive a RunHeader, then
// every CheckResult in report order, then a RunFooter; Close flushes
// whatever the sink buffered.
type Sink interface {
	Write(v any) error
	Close() error
}

// Manager fans run output out to multiple sinks. A failing sink never
// stops the others; errors are joined and reported together.
type Manager struct {
	sinks []Sink
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(s Sink) error {
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

func (m *Manager) Write(v any) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(v); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
