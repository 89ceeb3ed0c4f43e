package sink

import (
	"context"
	"fmt"
	"time"

	"contactform/internal/model"
	"contactform/pkg/metrics"
	"contactform/pkg/otel"
)

// TimestampLayout renders submission timestamps in the CSV and log files.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Sink is one persistence target of a submission.
type Sink interface {
	Name() string
	Write(ctx context.Context, s *model.Submission) error
}

// FanOut writes a submission to every sink in order. Sinks are independent mirrors:
// there is no transaction spanning them, a failing sink stops the remaining writes and
// whatever was written before it stays written.
type FanOut struct {
	sinks []Sink
}

func NewFanOut(sinks ...Sink) *FanOut {
	return &FanOut{sinks: sinks}
}

func (f *FanOut) Write(ctx context.Context, s *model.Submission) error {
	for _, sk := range f.sinks {
		start := time.Now()
		err := otel.SinkWrite(ctx, sk.Name(), func(ctx context.Context) error {
			return sk.Write(ctx, s)
		})
		metrics.RecordSinkWrite(sk.Name(), err, time.Since(start))
		if err != nil {
			return fmt.Errorf("failed to write %s sink: %w", sk.Name(), err)
		}
	}
	return nil
}
