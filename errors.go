// errors.go - error values returned by go-dhke
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"errors"
)

var (
	// ErrInvalidRange is returned for an empty or degenerate sampling range.
	ErrInvalidRange = errors.New("dhke: invalid range")

	// ErrInvalidModulus is returned when the modulus is not positive.
	ErrInvalidModulus = errors.New("dhke: invalid modulus")

	// ErrInvalidOperand is returned for a nil operand or a negative exponent.
	ErrInvalidOperand = errors.New("dhke: invalid operand")

	// ErrOracleFailure wraps any error reported by a primality oracle.
	ErrOracleFailure = errors.New("dhke: primality oracle failed")

	// ErrSearchExhausted is returned when a generator hits its iteration cap.
	ErrSearchExhausted = errors.New("dhke: strong prime search exhausted")

	// ErrInvalidConfig is returned for negative tuning parameters.
	ErrInvalidConfig = errors.New("dhke: invalid config")
)
