// compute strong primes and print them with their generator
//
// Usage: ./strongprime [--bit-lower N] [--bit-upper N] [--count N] ..
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package main

import (
	"fmt"
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
		&cli.IntFlag{
			Name:  "count",
			Value: 1,
			Usage: "number of primes to generate",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "concurrent searches (0: one per CPU)",
		},
	)

	app := &cli.App{
		Name:   "strongprime",
		Usage:  "generate primes p such that (p-1)/2 is also prime",
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
	ps, err := dhke.GenerateN(ctx, g, c.Int("count"), c.Int("workers"))
	if err != nil {
		return err
	}

	env.Log.WithFields(logrus.Fields{
		"count":   len(ps),
		"elapsed": time.Since(start).String(),
	}).Info("search done")

	for _, p := range ps {
		fmt.Printf("%d:%d:%x\n", p.BitLen(), dhke.DefaultGenerator, p)
	}
	return nil
}
