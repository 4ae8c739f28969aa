// rand.go - uniform sampling of big integers and seedable random streams
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
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// randBelow returns a uniform value in [0, max) read from r. max must be
// positive. Candidates are drawn with the top byte masked to the bit
// length of max-1 and rejected when too large; this is the same
// procedure as crypto/rand.Int, kept local so that a deterministic r
// always yields the same sequence.
func randBelow(r io.Reader, max *big.Int) (*big.Int, error) {
	n := new(big.Int).Sub(max, one)
	bits := n.BitLen()
	if bits == 0 {
		return n, nil
	}

	b := uint(bits % 8)
	if b == 0 {
		b = 8
	}

	bytes := make([]byte, (bits+7)/8)
	for {
		if _, err := io.ReadFull(r, bytes); err != nil {
			return nil, fmt.Errorf("dhke: random source: %w", err)
		}

		// Clear bits in the first byte so the candidate has at most 'bits' bits.
		bytes[0] &= uint8(int(1<<b) - 1)
		n.SetBytes(bytes)
		if n.Cmp(max) < 0 {
			return n, nil
		}
	}
}

// randRange returns a uniform value in [lo, hi). The caller guarantees
// lo < hi.
func randRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	v, err := randBelow(r, span)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}

// seededReader is an endless ChaCha20 keystream.
type seededReader struct {
	c *chacha20.Cipher
}

// NewSeededReader returns a deterministic random stream: the ChaCha20
// keystream under key BLAKE2b-256(seed) and an all zero nonce. Two
// readers built from the same seed return identical bytes. It is meant
// for reproducible tests and demos, never for real key material.
func NewSeededReader(seed []byte) io.Reader {
	key := blake2b.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		panic(fmt.Sprintf("dhke: chacha20 init: %s", err))
	}
	return &seededReader{c: c}
}

func (s *seededReader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	s.c.XORKeyStream(b, b)
	return len(b), nil
}

// lockedReader serializes reads on a shared random stream.
type lockedReader struct {
	sync.Mutex
	r io.Reader
}

func (l *lockedReader) Read(b []byte) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.r.Read(b)
}

// lockReader wraps r for concurrent use. crypto/rand.Reader is already
// safe and is returned as is.
func lockReader(r io.Reader) io.Reader {
	switch r.(type) {
	case *lockedReader:
		return r
	}
	if r == CR.Reader {
		return r
	}
	return &lockedReader{r: r}
}

var one = big.NewInt(1)
