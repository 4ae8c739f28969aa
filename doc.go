// doc.go - package documentation
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

// Package dhke implements the numeric primitives of a Diffie-Hellman key
// exchange: a search for strong primes (primes p such that (p-1)/2 is
// also prime) and square-and-multiply modular exponentiation.
//
// Primality testing is delegated to an Oracle; the default one is
// big.Int.ProbablyPrime with DefaultRounds rounds. A typical exchange:
//
//	p, err := dhke.StrongPrime(ctx, 1024, 1033)
//	gr := dhke.NewGroup(p)
//	a, b, err := dhke.SamplePair(nil, lo, hi)
//	A, _ := gr.PublicValue(a)
//	B, _ := gr.PublicValue(b)
//	s, _ := gr.SharedSecret(B, a) // == gr.SharedSecret(A, b)
//	key, _ := gr.DeriveKey(s, 16)
package dhke
