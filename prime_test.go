// self test for strong prime generation
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isPrimeTrial is a trial division primality test independent of
// big.Int.ProbablyPrime; only usable for small n.
func isPrimeTrial(n *big.Int) bool {
	if !n.IsUint64() {
		panic("isPrimeTrial: too large")
	}

	v := n.Uint64()
	if v < 2 {
		return false
	}
	for d := uint64(2); d*d <= v; d++ {
		if v%d == 0 {
			return false
		}
	}
	return true
}

func requireStrongPrime(t *testing.T, p *big.Int, lower, upper int) {
	t.Helper()

	require.NotNil(t, p)
	assert.Equal(t, uint(1), p.Bit(0), "p=%s is even", p)
	assert.GreaterOrEqual(t, p.BitLen(), lower, "p=%s", p)
	assert.Less(t, p.BitLen(), upper, "p=%s", p)
	assert.True(t, isPrimeTrial(p), "p=%s not prime", p)

	q := new(big.Int).Rsh(p, 1)
	assert.True(t, isPrimeTrial(q), "q=%s not prime", q)
}

// failReader fails the test on any read.
type failReader struct {
	t *testing.T
}

func (f failReader) Read(b []byte) (int, error) {
	f.t.Fatalf("unexpected read of %d random bytes", len(b))
	return 0, errors.New("unreachable")
}

// scriptedOracle records every query and answers composite for the
// first 'reject' queries, prime afterwards.
type scriptedOracle struct {
	reject int
	calls  []*big.Int
}

func (s *scriptedOracle) IsPrime(n *big.Int) (bool, error) {
	s.calls = append(s.calls, new(big.Int).Set(n))
	return len(s.calls) > s.reject, nil
}

func testConfig() Config {
	return Config{BitLower: 16, BitUpper: 24}
}

func TestWitnessRange(t *testing.T) {
	tests := []struct {
		lower, upper int
	}{
		{3, 4},
		{5, 6},
		{16, 24},
		{64, 65},
		{1024, 1033},
	}

	four := big.NewInt(4)
	three := big.NewInt(3)
	p := func(k *big.Int) *big.Int {
		z := new(big.Int).Mul(k, four)
		return z.Add(z, three)
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.lower, tt.upper), func(t *testing.T) {
			a := new(big.Int).Lsh(one, uint(tt.lower-1))
			b := new(big.Int).Lsh(one, uint(tt.upper-1))
			lo, hi := witnessRange(a, b)

			require.Equal(t, -1, lo.Cmp(hi))

			// lo is the smallest k with 4k+3 >= a
			assert.GreaterOrEqual(t, p(lo).Cmp(a), 0)
			assert.Equal(t, -1, p(new(big.Int).Sub(lo, one)).Cmp(a))

			// hi-1 is the largest k with 4k+3 < b
			assert.Equal(t, -1, p(new(big.Int).Sub(hi, one)).Cmp(b))
			assert.GreaterOrEqual(t, p(hi).Cmp(b), 0)
		})
	}
}

func TestGenerateSmall(t *testing.T) {
	cfg := testConfig()

	for i := 0; i < 16; i++ {
		seed := []byte(fmt.Sprintf("strong-prime-%d", i))
		g, err := NewGenerator(cfg, WithRand(NewSeededReader(seed)))
		require.NoError(t, err)

		p, err := g.Generate(context.Background())
		require.NoError(t, err)
		requireStrongPrime(t, p, cfg.BitLower, cfg.BitUpper)
	}
}

func TestGenerateTinyRange(t *testing.T) {
	// [4, 8) holds a single witness, k = 1: p = 7, q = 3.
	g, err := NewGenerator(Config{BitLower: 3, BitUpper: 4}, WithRand(NewSeededReader(nil)))
	require.NoError(t, err)

	p, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.Int64())
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig()
	seed := []byte("reproducible")

	run := func() *big.Int {
		g, err := NewGenerator(cfg, WithRand(NewSeededReader(seed)))
		require.NoError(t, err)

		p, err := g.Generate(context.Background())
		require.NoError(t, err)
		return p
	}

	p0 := run()
	p1 := run()
	assert.Equal(t, 0, p0.Cmp(p1), "%s != %s", p0, p1)
	requireStrongPrime(t, p0, cfg.BitLower, cfg.BitUpper)

	// the seeded stream and the witness mapping are part of the contract
	assert.Equal(t, int64(reproduciblePrime), p0.Int64())
	assert.Equal(t, 22, p0.BitLen())
}

// Strong prime found for seed "reproducible" in [2^15, 2^23), on the
// 15th witness.
const reproduciblePrime = 2544383

// Progress reporting observes the search and does not change it.
func TestGenerateProgressSameResult(t *testing.T) {
	seed := []byte("reproducible")

	run := func(every int) (*big.Int, []Progress) {
		var recs []Progress

		cfg := testConfig()
		cfg.DebugInterval = every
		g, err := NewGenerator(cfg,
			WithRand(NewSeededReader(seed)),
			WithProgress(func(p Progress) { recs = append(recs, p) }))
		require.NoError(t, err)

		p, err := g.Generate(context.Background())
		require.NoError(t, err)
		return p, recs
	}

	off, recs := run(0)
	assert.Equal(t, int64(reproduciblePrime), off.Int64())
	assert.Empty(t, recs)

	for _, every := range []int{1, 5} {
		p, recs := run(every)
		assert.Equal(t, 0, off.Cmp(p), "interval %d: %s != %s", every, p, off)

		require.Len(t, recs, 15/every, "interval %d", every)
		for i, r := range recs {
			assert.Equal(t, every*(i+1), r.Iteration)
		}

		// the successful iteration is reported too
		last := recs[len(recs)-1]
		assert.Equal(t, 15, last.Iteration)
		assert.Equal(t, 0, last.P.Cmp(p))
	}
}

func TestGenerateQueryOrder(t *testing.T) {
	o := &scriptedOracle{reject: 4}
	g, err := NewGenerator(testConfig(), WithOracle(o), WithRand(NewSeededReader([]byte("order"))))
	require.NoError(t, err)

	p, err := g.Generate(context.Background())
	require.NoError(t, err)

	// 4 rejected p candidates (q never asked), then p and q of the 5th.
	require.Len(t, o.calls, 6)
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint64(3), o.calls[i].Uint64()&3, "candidate %s is not 4k+3", o.calls[i])
	}
	assert.Equal(t, 0, o.calls[4].Cmp(p))
	assert.Equal(t, 0, o.calls[5].Cmp(new(big.Int).Rsh(p, 1)))
}

func TestGenerateProgress(t *testing.T) {
	var recs []Progress

	cfg := testConfig()
	cfg.DebugInterval = 3
	o := &scriptedOracle{reject: 9}
	g, err := NewGenerator(cfg,
		WithOracle(o),
		WithRand(NewSeededReader([]byte("progress"))),
		WithProgress(func(p Progress) { recs = append(recs, p) }))
	require.NoError(t, err)

	p, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, o.calls, 11)
	assert.Equal(t, 0, o.calls[9].Cmp(p))

	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, 3*(i+1), r.Iteration)
		assert.Equal(t, 0, r.P.Cmp(o.calls[r.Iteration-1]))

		q := new(big.Int).Lsh(r.K, 1)
		q.Add(q, one)
		assert.Equal(t, 0, r.Q.Cmp(q))
		assert.Equal(t, 0, r.P.Cmp(new(big.Int).Add(new(big.Int).Lsh(q, 1), one)))
		assert.GreaterOrEqual(t, int64(r.Elapsed), int64(0))
	}
}

func TestGenerateProgressDisabled(t *testing.T) {
	called := false
	g, err := NewGenerator(testConfig(),
		WithOracle(&scriptedOracle{reject: 20}),
		WithRand(NewSeededReader(nil)),
		WithProgress(func(Progress) { called = true }))
	require.NoError(t, err)

	_, err = g.Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
}

func TestGenerateInvalidRange(t *testing.T) {
	tests := []Config{
		{BitLower: 24, BitUpper: 16},
		{BitLower: 16, BitUpper: 16},
		{BitLower: 2, BitUpper: 16},
		{BitLower: 0, BitUpper: 0},
		{BitLower: -4, BitUpper: 8},
	}

	o := OracleFunc(func(n *big.Int) (bool, error) {
		t.Fatalf("oracle called with %s", n)
		return false, nil
	})

	for _, cfg := range tests {
		g, err := NewGenerator(cfg, WithOracle(o), WithRand(failReader{t}))
		assert.Nil(t, g)
		assert.ErrorIs(t, err, ErrInvalidRange, "config %+v", cfg)

		_, err = StrongPrime(context.Background(), cfg.BitLower, cfg.BitUpper)
		assert.ErrorIs(t, err, ErrInvalidRange, "config %+v", cfg)
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	tests := []Config{
		{BitLower: 16, BitUpper: 24, DebugInterval: -1},
		{BitLower: 16, BitUpper: 24, MaxIterations: -1},
		{BitLower: 16, BitUpper: 24, Rounds: -1},
	}

	for _, cfg := range tests {
		_, err := NewGenerator(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "config %+v", cfg)
	}
}

func TestGenerateOracleFailure(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	o := OracleFunc(func(n *big.Int) (bool, error) {
		calls++
		return false, boom
	})

	g, err := NewGenerator(testConfig(), WithOracle(o), WithRand(NewSeededReader(nil)))
	require.NoError(t, err)

	p, err := g.Generate(context.Background())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrOracleFailure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "oracle failures must not be retried")
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := OracleFunc(func(*big.Int) (bool, error) { return false, nil })
	g, err := NewGenerator(testConfig(), WithOracle(never))
	require.NoError(t, err)

	_, err = g.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateExhausted(t *testing.T) {
	calls := 0
	never := OracleFunc(func(*big.Int) (bool, error) {
		calls++
		return false, nil
	})

	cfg := testConfig()
	cfg.MaxIterations = 5
	g, err := NewGenerator(cfg, WithOracle(never), WithRand(NewSeededReader(nil)))
	require.NoError(t, err)

	_, err = g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrSearchExhausted)
	assert.Equal(t, 5, calls)
}

func TestStrongPrime(t *testing.T) {
	p, err := StrongPrime(context.Background(), 16, 24)
	require.NoError(t, err)
	requireStrongPrime(t, p, 16, 24)
}

func TestStrongPrimeLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 256 bit search in short mode")
	}

	g, err := NewGenerator(Config{BitLower: 256, BitUpper: 257}, WithRand(NewSeededReader([]byte("256"))))
	require.NoError(t, err)

	p, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 256, p.BitLen())

	ok, err := IsStrongPrime(ProbablyPrime(20), p)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsStrongPrime(t *testing.T) {
	tests := []struct {
		p    int64
		want bool
	}{
		{7, true},
		{11, true},
		{23, true},
		{47, true},
		{59, true},
		{83, true},
		{13, false}, // q = 6
		{29, false}, // q = 14
		{31, false}, // q = 15
		{15, false}, // composite
		{0, false},
		{-7, false},
	}

	for _, tt := range tests {
		ok, err := IsStrongPrime(ProbablyPrime(20), big.NewInt(tt.p))
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "p=%d", tt.p)
	}
}
