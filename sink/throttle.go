package sink

import (
	"context"

	"golang.org/x/time/rate"
)

// throttledSink limits the write throughput of an inner sink.
type throttledSink struct {
	Sink
	ctx     context.Context
	limiter *rate.Limiter
}

// Throttle caps the write throughput of s at bytesPerSec.
// A non-positive limit returns s unchanged.
//
// Writes block until enough tokens are available or ctx is done; ctx should
// live as long as the sink.
func Throttle(ctx context.Context, s Sink, bytesPerSec int64) Sink {
	if bytesPerSec <= 0 {
		return s
	}
	return &throttledSink{
		Sink:    s,
		ctx:     ctx,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), int(bytesPerSec)),
	}
}

// Write waits for tokens in chunks no larger than the limiter burst.
func (s *throttledSink) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		chunk := min(len(p), s.limiter.Burst())
		if err := s.limiter.WaitN(s.ctx, chunk); err != nil {
			return written, err
		}
		n, err := s.Sink.Write(p[:chunk])
		written += n
		if err != nil {
			return written, err
		}
		p = p[chunk:]
	}
	return written, nil
}
