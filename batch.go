// batch.go - concurrent strong prime generation
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"context"
	"math/big"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// GenerateN runs n independent searches of g on a pool of workers
// goroutines (GOMAXPROCS when workers <= 0) and returns the n primes.
// The random source of g is shared under a lock, so a seeded source
// still yields valid primes but their order is not reproducible. The
// progress function of g is called from several goroutines.
//
// The first failing search cancels the others and its error is returned.
func GenerateN(ctx context.Context, g *Generator, n, workers int) ([]*big.Int, error) {
	if n <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shared := *g
	shared.rand = lockReader(g.rand)

	var (
		wg    sync.WaitGroup
		once  sync.Once
		first error
		out   = make([]*big.Int, n)
	)

	fail := func(err error) {
		once.Do(func() {
			first = err
			cancel()
		})
	}

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			p, err := shared.Generate(ctx)
			if err != nil {
				fail(err)
				return
			}
			out[i] = p
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}

	wg.Wait()
	if first != nil {
		return nil, first
	}
	return out, nil
}
