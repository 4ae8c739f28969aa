// keys.go - private exponents
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	CR "crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Demonstration scale bounds for private exponents: [2^6, 2^9).
var (
	DefaultKeyLower = big.NewInt(1 << 6)
	DefaultKeyUpper = big.NewInt(1 << 9)
)

// PrivateKey draws one exponent uniformly from [lo, hi). A nil r means
// crypto/rand.Reader.
func PrivateKey(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if err := checkKeyRange(lo, hi, 1); err != nil {
		return nil, err
	}
	if r == nil {
		r = CR.Reader
	}
	return randRange(r, lo, hi)
}

// SamplePair draws two independent exponents a, b uniformly from
// [lo, hi), redrawing both whenever they collide. The range must hold
// at least two values.
func SamplePair(r io.Reader, lo, hi *big.Int) (a, b *big.Int, err error) {
	if err = checkKeyRange(lo, hi, 2); err != nil {
		return nil, nil, err
	}
	if r == nil {
		r = CR.Reader
	}

	for {
		if a, err = randRange(r, lo, hi); err != nil {
			return nil, nil, err
		}
		if b, err = randRange(r, lo, hi); err != nil {
			return nil, nil, err
		}
		if a.Cmp(b) != 0 {
			return a, b, nil
		}
	}
}

// checkKeyRange requires hi - lo >= need.
func checkKeyRange(lo, hi *big.Int, need int64) error {
	if lo == nil || hi == nil {
		return fmt.Errorf("%w: nil bound", ErrInvalidRange)
	}

	span := new(big.Int).Sub(hi, lo)
	if span.Cmp(big.NewInt(need)) < 0 {
		return fmt.Errorf("%w: [%s, %s) holds fewer than %d values", ErrInvalidRange, lo, hi, need)
	}
	return nil
}
