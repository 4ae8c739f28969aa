// self test for progress records
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"math/big"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProgress(i int) Progress {
	return Progress{
		Iteration: i,
		K:         big.NewInt(5),
		Q:         big.NewInt(11),
		P:         big.NewInt(23),
		Elapsed:   1500 * time.Millisecond,
	}
}

func TestProgressString(t *testing.T) {
	s := sampleProgress(42).String()
	assert.Equal(t, "iteration=42 k=5 q=11 p=23 elapsed_seconds=1.500000", s)
}

func TestLogProgress(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)

	LogProgress(l)(sampleProgress(7))

	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, e.Level)
	assert.Equal(t, 7, e.Data["iteration"])
	assert.Equal(t, "5", e.Data["k"])
	assert.Equal(t, "11", e.Data["q"])
	assert.Equal(t, "23", e.Data["p"])
	assert.Equal(t, 1.5, e.Data["elapsed_seconds"])
}

func TestLogProgressFiltered(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.InfoLevel)

	LogProgress(l)(sampleProgress(1))
	assert.Empty(t, hook.Entries)
}

func TestAsyncProgressDelivers(t *testing.T) {
	var got []int
	sink, stop := AsyncProgress(func(p Progress) {
		got = append(got, p.Iteration)
	}, 16)

	for i := 1; i <= 10; i++ {
		sink(sampleProgress(i))
	}
	stop()
	stop()

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, got)
}

func TestAsyncProgressNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	n := 0
	sink, stop := AsyncProgress(func(p Progress) {
		<-release
		n++
	}, 1)

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 100; i++ {
			sink(sampleProgress(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("progress sink blocked the caller")
	}

	close(release)
	stop()

	// one record in flight plus at most one buffered
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 2)
}

func TestProgressTimerDisabled(t *testing.T) {
	called := false
	fn := func(Progress) { called = true }

	for _, every := range []int{0, -3} {
		pt := newProgressTimer(every, fn)
		for i := 1; i <= 10; i++ {
			pt.tick(i, big.NewInt(1), big.NewInt(3), big.NewInt(7))
		}
	}
	newProgressTimer(1, nil).tick(1, big.NewInt(1), big.NewInt(3), big.NewInt(7))

	assert.False(t, called)
}
