package sink

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"contactform/internal/model"
)

// line breaks inside a field would split one submission over several log lines
var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

// LogSink appends one "Key: value, ..." line per submission to a plain-text file.
type LogSink struct {
	path string
	mu   sync.Mutex
}

func NewLogSink(path string) *LogSink {
	return &LogSink{path: path}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(_ context.Context, sub *model.Submission) (err error) {
	line := FormatLogLine(sub)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", s.path, cerr)
		}
	}()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append log line: %w", err)
	}
	return nil
}

// FormatLogLine renders the newline-terminated log entry for a submission.
func FormatLogLine(sub *model.Submission) string {
	return fmt.Sprintf("Name: %s, Email: %s, Message: %s, Service: %s, Phone: %s, Timestamp: %s\n",
		lineEscaper.Replace(sub.Name),
		lineEscaper.Replace(sub.Email),
		lineEscaper.Replace(sub.Message),
		lineEscaper.Replace(sub.Service),
		lineEscaper.Replace(sub.PhoneNumber),
		sub.Timestamp.Format(TimestampLayout),
	)
}
