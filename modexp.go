// modexp.go - square and multiply modular exponentiation
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"fmt"
	"math/big"
)

// PowMod returns base^exponent mod modulus, a value in [0, modulus).
//
// base^(2^i) mod modulus is tabulated for i up to the highest set bit of
// exponent, each entry the square of the previous one; the entries for
// the set bits are then multiplied together. Every product is reduced
// so intermediates stay below modulus^2.
//
// modulus must be positive and exponent non-negative. A modulus of 1
// yields 0.
func PowMod(base, exponent, modulus *big.Int) (*big.Int, error) {
	if base == nil || exponent == nil {
		return nil, fmt.Errorf("%w: nil base or exponent", ErrInvalidOperand)
	}
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModulus, modulus)
	}
	if exponent.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative exponent", ErrInvalidOperand)
	}

	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}
	if exponent.Sign() == 0 {
		return big.NewInt(1), nil
	}

	n := exponent.BitLen()
	pow := make([]*big.Int, n)

	// Mod is Euclidean: negative bases land in [0, modulus).
	pow[0] = new(big.Int).Mod(base, modulus)
	for i := 1; i < n; i++ {
		z := new(big.Int).Mul(pow[i-1], pow[i-1])
		pow[i] = z.Mod(z, modulus)
	}

	r := big.NewInt(1)
	for i := 0; i < n; i++ {
		if exponent.Bit(i) == 1 {
			r.Mul(r, pow[i])
			r.Mod(r, modulus)
		}
	}
	return r, nil
}
