package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	SourceCLI         = "cli"
	SourceInteractive = "interactive"
	SourceAPI         = "api"

	OperationExtract  = "extract"
	OperationValidate = "validate"
)

// Record is written as a single JSON object per operation. Matched text is
// never recorded, only counts and verdicts.
type Record struct {
	Timestamp  time.Time      `json:"ts"`
	RequestID  string         `json:"request_id,omitempty"`
	Source     string         `json:"source"`
	Operation  string         `json:"operation"`
	Pattern    string         `json:"pattern,omitempty"`
	InputBytes int            `json:"input_bytes"`
	Valid      *bool          `json:"valid,omitempty"`
	Matches    map[string]int `json:"matches,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationUS int64          `json:"duration_us"`
}

type RecordLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewRecordLogger(w io.Writer) *RecordLogger {
	return &RecordLogger{w: w}
}

func OpenResultLog(path string) (*RecordLogger, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return NewRecordLogger(file), file.Close, nil
}

// Write appends one record. A nil logger discards it.
func (l *RecordLogger) Write(record Record) error {
	if l == nil {
		return nil
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(append(data, '\n'))
	return err
}

func Verdict(valid bool) *bool {
	return &valid
}
