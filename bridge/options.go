package bridge

import (
	"time"

	"go.uber.org/zap"
)

// Options are shared by every pipeline component.
type Options struct {
	Logger *zap.Logger
	// Concurrency bounds fan-out within one operation (batch analysis, market positions).
	Concurrency int
	// Now is the clock used for derived timestamps.
	Now func() time.Time
	// Progress, when set, is called after each entry of a batch run.
	Progress func(done, total int, last string)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
