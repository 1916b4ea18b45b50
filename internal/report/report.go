// internal/report/report.go
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/api/schemas"
	"github.com/xkilldash9x/screenfit/internal/observability"
)

// ToolName identifies the generator in report output.
const ToolName = "screenfit"

// Record captures the outcome of fitting one document.
type Record struct {
	// File is the input path or URL that was fitted.
	File string `json:"file"`
	// EngineID is the adaptation engine instance that produced the plan.
	EngineID string `json:"engineId"`
	// Plan is the final style plan applied to the document.
	Plan schemas.StylePlan `json:"plan"`
	// Output is where the fitted document was written, when applicable.
	Output string `json:"output,omitempty"`
	// DurationMS is the wall time of the fit in milliseconds.
	DurationMS float64 `json:"durationMs"`
	// FittedAt is when the fit completed.
	FittedAt time.Time `json:"fittedAt"`
	// Error holds the failure message for documents that could not be
	// fitted. Successful records leave it empty.
	Error string `json:"error,omitempty"`
}

// Log is the top-level report document.
type Log struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	Records     []*Record `json:"records"`
}

// Reporter defines the interface for writing fit results to an output.
type Reporter interface {
	// Write adds a single fit record.
	Write(record *Record) error
	// Close finalizes the report and closes any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter writing to outputPath. An empty path or "stdout"
// targets standard output.
func New(outputPath, toolVersion string) (Reporter, error) {
	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}
	return NewJSONReporter(writer, toolVersion), nil
}

// JSONReporter accumulates records and writes a single JSON document on
// Close. It is thread safe.
type JSONReporter struct {
	writer io.WriteCloser
	logger *zap.Logger

	mu     sync.Mutex
	log    *Log
	closed bool
}

// NewJSONReporter creates a reporter that takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser, toolVersion string) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		logger: observability.GetLogger().Named("report"),
		log: &Log{
			Tool:    ToolName,
			Version: toolVersion,
			// Initialize an empty slice (not nil) for proper JSON marshalling.
			Records: []*Record{},
		},
	}
}

// Write adds a record to the pending report.
func (r *JSONReporter) Write(record *Record) error {
	if record == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("reporter is already closed")
	}
	r.log.Records = append(r.log.Records, record)
	r.logger.Debug("Recorded fit result.",
		zap.String("file", record.File),
		zap.Float64("scale", record.Plan.Scale))
	return nil
}

// Close marshals the accumulated report and releases the writer. Repeated
// calls are no-ops.
func (r *JSONReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.GeneratedAt = time.Now().UTC()
	data, err := json.MarshalIndent(r.log, "", "  ")
	if err != nil {
		r.writer.Close()
		return fmt.Errorf("failed to marshal fit report: %w", err)
	}
	if _, err := r.writer.Write(append(data, '\n')); err != nil {
		r.writer.Close()
		return fmt.Errorf("failed to write fit report: %w", err)
	}
	return r.writer.Close()
}
