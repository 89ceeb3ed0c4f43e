package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"contactform/internal/model"
)

// CSVHeader is written once, when the file is first created.
var CSVHeader = []string{"Name", "Email", "Message", "Service", "Phone Number", "Timestamp"}

// CSVSink appends one record per submission to a CSV file.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(_ context.Context, sub *model.Submission) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", s.path, statErr)
	}
	needHeader := statErr != nil

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", s.path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if needHeader {
		if err := w.Write(CSVHeader); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	record := []string{
		sub.Name,
		sub.Email,
		sub.Message,
		sub.Service,
		sub.PhoneNumber,
		sub.Timestamp.Format(TimestampLayout),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to write csv record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
