// prime.go - Generate strong primes
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//
// A prime p is a strong prime if q = (p-1)/2 is also prime. q is odd, so
// it is 2k+1 for some k and p = 2q+1 = 4k+3. Instead of drawing p and
// testing it and q for oddness, we draw k:
//
//   A <= p < B
//   A <= 4k+3 < B
//   ceil((A-3)/4) <= k < ceil((B-3)/4)
//
// and p, q come out odd by construction.

package dhke

import (
	"context"
	CR "crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Generator searches for strong primes. A Generator holds no state
// between calls to Generate; it may be used from several goroutines if
// its random source and progress function allow it.
type Generator struct {
	cfg      Config
	oracle   Oracle
	rand     io.Reader
	progress ProgressFunc

	// witness range [kLo, kHi)
	kLo, kHi *big.Int
}

// Option configures a Generator.
type Option func(g *Generator)

// WithOracle replaces the default ProbablyPrime oracle.
func WithOracle(o Oracle) Option {
	return func(g *Generator) {
		g.oracle = o
	}
}

// WithRand replaces crypto/rand.Reader as the source of witnesses.
func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithProgress sets the receiver of progress records. Records are only
// emitted when cfg.DebugInterval > 0.
func WithProgress(fn ProgressFunc) Option {
	return func(g *Generator) {
		g.progress = fn
	}
}

// NewGenerator validates cfg and builds a Generator.
func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:  cfg,
		rand: CR.Reader,
	}
	for _, o := range opts {
		o(g)
	}

	if g.rand == nil {
		g.rand = CR.Reader
	}
	if g.oracle == nil {
		rounds := cfg.Rounds
		if rounds == 0 {
			rounds = DefaultRounds
		}
		g.oracle = ProbablyPrime(rounds)
	}

	a := new(big.Int).Lsh(one, uint(cfg.BitLower-1))
	b := new(big.Int).Lsh(one, uint(cfg.BitUpper-1))
	g.kLo, g.kHi = witnessRange(a, b)
	if g.kLo.Cmp(g.kHi) >= 0 {
		return nil, fmt.Errorf("%w: no witness for [%s, %s)", ErrInvalidRange, a, b)
	}
	return g, nil
}

// Config returns the configuration g was built with.
func (g *Generator) Config() Config {
	return g.cfg
}

// witnessRange maps p in [a, b) to k in [lo, hi) such that p = 4k+3.
func witnessRange(a, b *big.Int) (lo, hi *big.Int) {
	// ceil((x-3)/4) == floor((x-3+3)/4) == floor(x/4) for x >= 0.
	return new(big.Int).Rsh(a, 2), new(big.Int).Rsh(b, 2)
}

// Generate draws witnesses until it finds a strong prime and returns it.
// The context is checked once per iteration. Failures of the oracle are
// returned immediately and match ErrOracleFailure.
func (g *Generator) Generate(ctx context.Context) (*big.Int, error) {
	timer := newProgressTimer(g.cfg.DebugInterval, g.progress)

	for i := 1; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.cfg.MaxIterations > 0 && i > g.cfg.MaxIterations {
			return nil, fmt.Errorf("%w: %d iterations", ErrSearchExhausted, g.cfg.MaxIterations)
		}

		k, err := randRange(g.rand, g.kLo, g.kHi)
		if err != nil {
			return nil, err
		}

		// q = 2k+1, p = 2q+1
		q := new(big.Int).Lsh(k, 1)
		q.Add(q, one)
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, one)

		ok, err := g.oracle.IsPrime(p)
		if err != nil {
			return nil, oracleErr(p, err)
		}
		if ok {
			ok, err = g.oracle.IsPrime(q)
			if err != nil {
				return nil, oracleErr(q, err)
			}
		}

		timer.tick(i, k, q, p)
		if ok {
			return p, nil
		}
	}
}

// StrongPrime returns a strong prime p with bitLower <= p.BitLen() <
// bitUpper, drawn from crypto/rand and tested with DefaultRounds.
func StrongPrime(ctx context.Context, bitLower, bitUpper int) (*big.Int, error) {
	g, err := NewGenerator(Config{BitLower: bitLower, BitUpper: bitUpper})
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx)
}

// IsStrongPrime reports whether p and (p-1)/2 are both prime according
// to o.
func IsStrongPrime(o Oracle, p *big.Int) (bool, error) {
	if p == nil || p.Sign() <= 0 {
		return false, nil
	}

	ok, err := o.IsPrime(p)
	if err != nil || !ok {
		return false, oracleErr(p, err)
	}

	q := new(big.Int).Rsh(p, 1)
	ok, err = o.IsPrime(q)
	if err != nil {
		return false, oracleErr(q, err)
	}
	return ok, nil
}
