package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// JSONFormatter renders a run as a machine-readable document.
type JSONFormatter struct {
	pretty bool
}

// JSONOption is a functional option for JSONFormatter
type JSONOption func(*JSONFormatter)

// WithJSONPretty enables pretty-printed JSON output
func WithJSONPretty(pretty bool) JSONOption {
	return func(f *JSONFormatter) {
		f.pretty = pretty
	}
}

// NewJSONFormatter creates a new JSON run formatter
func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		pretty: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RunDocument is the complete JSON output structure
type RunDocument struct {
	RunID       string       `json:"run_id"`
	GeneratedAt string       `json:"generated_at"`
	SpecFile    string       `json:"spec_file"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Total       int          `json:"total"`
	DurationMs  int64        `json:"duration_ms"`
	Checks      []CheckEntry `json:"checks"`
}

// CheckEntry is one check in the JSON output
type CheckEntry struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Rules      int    `json:"rules"`
	Failure    string `json:"failure,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Write renders the run result to w.
func (f *JSONFormatter) Write(w io.Writer, result *RunResult) error {
	doc := RunDocument{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		SpecFile:    result.SpecFile,
		Passed:      result.Passed,
		Failed:      result.Failed,
		Total:       result.Passed + result.Failed,
		DurationMs:  result.Duration.Milliseconds(),
		Checks:      make([]CheckEntry, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		doc.Checks = append(doc.Checks, CheckEntry{
			Name:       r.Name,
			Passed:     r.Passed,
			Rules:      r.Rules,
			Failure:    r.Failure,
			DurationMs: r.Duration.Milliseconds(),
		})
	}

	var data []byte
	var err error

	if f.pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write run result: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}
