// dh.go - Diffie-Hellman group arithmetic on top of PowMod
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//
// Conventions
// -----------
//   p    A strong prime (p = 2q+1, where q is prime)
//        All arithmetic is done modulo p.
//   g    A public generator modulo p
//   a,b  Private exponents
//   A,B  Public values, A = g^a % p
//   S    Shared secret, S = B^a % p = A^b % p
//   K    Symmetric key, K = H(pad(S))
//   H()  Group.H, BLAKE2b-256 unless set otherwise

package dhke

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"math/big"
	"strings"

	_ "golang.org/x/crypto/blake2b"
)

// DefaultGenerator is the public generator used by the demos.
const DefaultGenerator = 5

// DefaultHash is the key derivation hash of a Group with no H set.
const DefaultHash = crypto.BLAKE2b_256

// Group is a prime modulus and a generator. H is the hash DeriveKey
// uses; zero means DefaultHash.
type Group struct {
	P *big.Int
	G *big.Int
	H crypto.Hash
}

// NewGroup returns the group <p, DefaultGenerator>.
func NewGroup(p *big.Int) *Group {
	return &Group{
		P: p,
		G: big.NewInt(DefaultGenerator),
		H: DefaultHash,
	}
}

// PublicValue returns g^priv mod p.
func (gr *Group) PublicValue(priv *big.Int) (*big.Int, error) {
	return PowMod(gr.G, priv, gr.P)
}

// SharedSecret returns peer^priv mod p. The peer value is reduced mod p
// but otherwise not validated.
func (gr *Group) SharedSecret(peer, priv *big.Int) (*big.Int, error) {
	return PowMod(peer, priv, gr.P)
}

// Size returns the number of bytes in p.
func (gr *Group) Size() int {
	return (gr.P.BitLen() + 7) / 8
}

// SecretBytes encodes s big-endian, left padded with zeros to Size()
// bytes. Every secret of a group encodes to the same length.
func (gr *Group) SecretBytes(s *big.Int) []byte {
	return pad(s, gr.Size())
}

// DeriveKey hashes the padded secret with gr.H and returns the first n
// bytes of the digest.
func (gr *Group) DeriveKey(s *big.Int, n int) ([]byte, error) {
	h := gr.H
	if h == 0 {
		h = DefaultHash
	}
	if !h.Available() {
		return nil, fmt.Errorf("dhke: hash %s not linked into the binary", h)
	}
	if n < 1 || n > h.Size() {
		return nil, fmt.Errorf("dhke: key size %d not in [1, %d]", n, h.Size())
	}

	return hashbyte(h, gr.SecretBytes(s))[:n], nil
}

// String represents the group as a string value
func (gr *Group) String() string {
	return fmt.Sprintf("<group> g=%d, p=%x (%d bits)", gr.G, gr.P, gr.P.BitLen())
}

// pad x to n bytes if needed
func pad(x *big.Int, n int) []byte {
	b := x.Bytes()
	if len(b) >= n {
		return b
	}

	p := make([]byte, n)
	copy(p[n-len(b):], b)
	return p
}

// hash byte stream and return as bytes
func hashbyte(hf crypto.Hash, a ...[]byte) []byte {
	h := hf.New()
	for _, z := range a {
		h.Write(z)
	}
	return h.Sum(nil)
}

// ParseHash maps a key derivation hash name to its crypto.Hash:
// "blake2b" (or "blake2b-256"), "sha256" and "sha512".
func ParseHash(name string) (crypto.Hash, error) {
	switch strings.ToLower(name) {
	case "", "blake2b", "blake2b-256", "blake2b256":
		return crypto.BLAKE2b_256, nil
	case "sha256", "sha-256":
		return crypto.SHA256, nil
	case "sha512", "sha-512":
		return crypto.SHA512, nil
	}
	return 0, fmt.Errorf("dhke: unknown hash %q", name)
}
