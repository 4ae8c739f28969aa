// oracle.go - primality oracles
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"errors"
	"fmt"
	"math/big"
)

// DefaultRounds is the number of Miller-Rabin rounds used by the default
// oracle. 64 rounds bound the false positive rate at 2^-128.
const DefaultRounds = 64

// Oracle answers whether n is prime. An error means the oracle itself
// could not answer; a composite n is not an error.
type Oracle interface {
	IsPrime(n *big.Int) (bool, error)
}

// OracleFunc adapts an ordinary function to the Oracle interface.
type OracleFunc func(n *big.Int) (bool, error)

// IsPrime calls f(n).
func (f OracleFunc) IsPrime(n *big.Int) (bool, error) {
	return f(n)
}

// ProbablyPrime is an Oracle backed by big.Int.ProbablyPrime. The value
// is the number of Miller-Rabin rounds done in addition to Baillie-PSW.
type ProbablyPrime int

// IsPrime implements Oracle.
func (r ProbablyPrime) IsPrime(n *big.Int) (bool, error) {
	if n == nil {
		return false, fmt.Errorf("%w: nil argument", ErrOracleFailure)
	}
	if n.Sign() < 0 {
		return false, fmt.Errorf("%w: negative argument %s", ErrOracleFailure, n)
	}
	if r < 0 {
		return false, fmt.Errorf("%w: negative round count %d", ErrOracleFailure, int(r))
	}
	return n.ProbablyPrime(int(r)), nil
}

// oracleErr makes sure every error coming out of an oracle matches
// ErrOracleFailure.
func oracleErr(n *big.Int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOracleFailure) {
		return fmt.Errorf("testing %d-bit candidate: %w", n.BitLen(), err)
	}
	return fmt.Errorf("%w: testing %d-bit candidate: %w", ErrOracleFailure, n.BitLen(), err)
}
