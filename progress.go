// progress.go - diagnostic records emitted during a strong prime search
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Progress is one diagnostic record of a running search. Elapsed is the
// wall clock time since the previous record (or since the search began).
// K, Q and P are owned by the receiver; the generator never touches them
// again.
type Progress struct {
	Iteration int
	K, Q, P   *big.Int
	Elapsed   time.Duration
}

// String renders the record as a single line.
func (p Progress) String() string {
	return fmt.Sprintf("iteration=%d k=%s q=%s p=%s elapsed_seconds=%.6f",
		p.Iteration, p.K, p.Q, p.P, p.Elapsed.Seconds())
}

// ProgressFunc receives progress records. It runs on the searching
// goroutine and must not block; see AsyncProgress.
type ProgressFunc func(Progress)

// LogProgress returns a ProgressFunc that writes each record to l at
// debug level.
func LogProgress(l logrus.FieldLogger) ProgressFunc {
	return func(p Progress) {
		l.WithFields(logrus.Fields{
			"iteration":       p.Iteration,
			"k":               p.K.String(),
			"q":               p.Q.String(),
			"p":               p.P.String(),
			"elapsed_seconds": p.Elapsed.Seconds(),
		}).Debug("strong prime search")
	}
}

// AsyncProgress decouples fn from the search loop. The returned
// ProgressFunc queues records on a buffer of the given depth and drops
// them when the buffer is full. stop flushes the queue and waits for fn
// to return; the returned ProgressFunc must not be called after stop.
func AsyncProgress(fn ProgressFunc, depth int) (sink ProgressFunc, stop func()) {
	if depth < 1 {
		depth = 1
	}

	ch := make(chan Progress, depth)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range ch {
			fn(p)
		}
	}()

	var once sync.Once
	sink = func(p Progress) {
		select {
		case ch <- p:
		default:
		}
	}
	stop = func() {
		once.Do(func() {
			close(ch)
			<-done
		})
	}
	return sink, stop
}

// progressTimer emits a record every 'every' iterations. The zero value
// (or every <= 0) is disabled.
type progressTimer struct {
	every int
	fn    ProgressFunc
	last  time.Time
}

func newProgressTimer(every int, fn ProgressFunc) *progressTimer {
	if every <= 0 || fn == nil {
		return &progressTimer{}
	}
	return &progressTimer{every: every, fn: fn, last: time.Now()}
}

func (t *progressTimer) tick(i int, k, q, p *big.Int) {
	if t.fn == nil || i%t.every != 0 {
		return
	}

	now := time.Now()
	t.fn(Progress{
		Iteration: i,
		K:         k,
		Q:         q,
		P:         p,
		Elapsed:   now.Sub(t.last),
	})
	t.last = now
}
