// Walk through a Diffie-Hellman exchange on a freshly generated strong prime
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package main

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	dhke "github.com/opencoff/go-dhke"
	"github.com/opencoff/go-dhke/internal/cliutil"
)

func main() {
	flags := append(cliutil.Flags(),
		&cli.Int64Flag{
			Name:    "generator",
			Aliases: []string{"g"},
			Value:   dhke.DefaultGenerator,
			Usage:   "public generator g",
		},
		&cli.StringFlag{
			Name:  "peer",
			Usage: "peer public value (decimal or 0x hex); default simulates the peer",
		},
		&cli.IntFlag{
			Name:  "key-size",
			Value: 16,
			Usage: "bytes of derived symmetric key",
		},
		&cli.StringFlag{
			Name:  "kdf",
			Value: "blake2b",
			Usage: "key derivation hash: blake2b, sha256 or sha512",
		},
		&cli.StringFlag{
			Name:  "ciphertext",
			Usage: "hex AES-CBC ciphertext to decrypt with the derived key",
		},
		&cli.StringFlag{
			Name:  "iv",
			Usage: "hex IV for --ciphertext",
		},
	)

	app := &cli.App{
		Name:   "exchange",
		Usage:  "generate p, sample private exponents and derive a shared key",
		Flags:  flags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	env, err := cliutil.Setup(c)
	if err != nil {
		return err
	}
	defer env.Close()

	g, err := env.Generator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	start := time.Now()
	p, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	env.Log.WithField("elapsed", time.Since(start).String()).Info("strong prime found")

	gr := dhke.NewGroup(p)
	gr.G = big.NewInt(c.Int64("generator"))
	if gr.H, err = dhke.ParseHash(c.String("kdf")); err != nil {
		return err
	}

	fmt.Printf("p = %s\nbits = %d\ng = %s\n", p, p.BitLen(), gr.G)

	a, b, err := dhke.SamplePair(env.Rand, dhke.DefaultKeyLower, dhke.DefaultKeyUpper)
	if err != nil {
		return err
	}

	A, err := gr.PublicValue(a)
	if err != nil {
		return err
	}
	fmt.Printf("a = %s\ng^a mod p = %s\n", a, A)

	var B *big.Int
	if s := c.String("peer"); s != "" {
		var ok bool
		if B, ok = new(big.Int).SetString(s, 0); !ok || B.Sign() <= 0 {
			return fmt.Errorf("invalid peer public value %q", s)
		}
	} else {
		if B, err = gr.PublicValue(b); err != nil {
			return err
		}
		fmt.Printf("b = %s\ng^b mod p = %s\n", b, B)
	}

	S, err := gr.SharedSecret(B, a)
	if err != nil {
		return err
	}
	fmt.Printf("g^ab = %s\nshared secret (bytes): %x\n", S, gr.SecretBytes(S))

	if c.String("peer") == "" {
		S2, err := gr.SharedSecret(A, b)
		if err != nil {
			return err
		}
		if 1 != subtle.ConstantTimeCompare(gr.SecretBytes(S), gr.SecretBytes(S2)) {
			return fmt.Errorf("shared secrets differ: %s != %s", S, S2)
		}
		env.Log.Debug("both sides derived the same secret")
	}

	key, err := gr.DeriveKey(S, c.Int("key-size"))
	if err != nil {
		return err
	}
	env.Log.WithFields(logrus.Fields{
		"group":    gr.String(),
		"key_size": len(key),
	}).Debug("key derived")

	fmt.Printf("symmetric key: %x\n", key)

	if c.IsSet("ciphertext") || c.IsSet("iv") {
		pt, err := decrypt(key, c.String("iv"), c.String("ciphertext"))
		if err != nil {
			return err
		}
		fmt.Printf("plaintext: %q\n", pt)
	}
	return nil
}

// decrypt hex-decodes iv and ct and decrypts ct under key. Padding is
// stripped when it is valid PKCS#7, otherwise the raw blocks are returned.
func decrypt(key []byte, ivHex, ctHex string) ([]byte, error) {
	if ivHex == "" || ctHex == "" {
		return nil, fmt.Errorf("--ciphertext and --iv must be given together")
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("iv: %w", err)
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return nil, fmt.Errorf("ciphertext: %w", err)
	}

	pt, err := dhke.DecryptCBC(key, iv, ct)
	if err != nil {
		return nil, err
	}
	if up, err := dhke.UnpadPKCS7(pt); err == nil {
		return up, nil
	}
	return pt, nil
}
