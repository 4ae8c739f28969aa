// cliutil.go - flags and setup shared by the example tools
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package cliutil

import (
	CR "crypto/rand"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	dhke "github.com/opencoff/go-dhke"
)

// progressDepth bounds the records queued for the logger.
const progressDepth = 64

// Flags returns the generator flags common to all tools.
func Flags() []cli.Flag {
	def := dhke.DefaultConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "read generator settings from a YAML or JSON `FILE`",
		},
		&cli.IntFlag{
			Name:  "bit-lower",
			Value: def.BitLower,
			Usage: "smallest bit length of p",
		},
		&cli.IntFlag{
			Name:  "bit-upper",
			Value: def.BitUpper,
			Usage: "bit length of p stays below this",
		},
		&cli.IntFlag{
			Name:  "debug-interval",
			Usage: "log search progress every `N` iterations",
		},
		&cli.IntFlag{
			Name:  "max-iterations",
			Usage: "give up after `N` iterations (0 never gives up)",
		},
		&cli.IntFlag{
			Name:  "rounds",
			Value: def.Rounds,
			Usage: "Miller-Rabin rounds per primality test",
		},
		&cli.StringFlag{
			Name:  "seed",
			Usage: "derive all randomness from `SEED` (reproducible, NOT secure)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "debug logging",
		},
	}
}

// Env is the state a tool needs to run searches.
type Env struct {
	Log    *logrus.Logger
	Config dhke.Config
	Rand   io.Reader

	stops []func()
}

// Setup builds an Env from the config file (if any) overridden by
// explicitly set flags.
func Setup(c *cli.Context) (*Env, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := dhke.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = dhke.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	override := func(name string, v *int) {
		if c.IsSet(name) {
			*v = c.Int(name)
		}
	}
	override("bit-lower", &cfg.BitLower)
	override("bit-upper", &cfg.BitUpper)
	override("debug-interval", &cfg.DebugInterval)
	override("max-iterations", &cfg.MaxIterations)
	override("rounds", &cfg.Rounds)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if c.Bool("verbose") || cfg.DebugInterval > 0 {
		log.SetLevel(logrus.DebugLevel)
	}

	e := &Env{
		Log:    log,
		Config: cfg,
		Rand:   CR.Reader,
	}

	if seed := c.String("seed"); seed != "" {
		log.Warn("using a seeded random stream; output is reproducible and must not be used for real keys")
		e.Rand = dhke.NewSeededReader([]byte(seed))
	}

	log.WithFields(logrus.Fields{
		"bit_lower":      cfg.BitLower,
		"bit_upper":      cfg.BitUpper,
		"debug_interval": cfg.DebugInterval,
		"max_iterations": cfg.MaxIterations,
		"rounds":         cfg.Rounds,
	}).Debug("generator config")
	return e, nil
}

// Generator returns a generator that logs progress without blocking the
// search.
func (e *Env) Generator() (*dhke.Generator, error) {
	sink, stop := dhke.AsyncProgress(dhke.LogProgress(e.Log), progressDepth)
	e.stops = append(e.stops, stop)

	return dhke.NewGenerator(e.Config, dhke.WithRand(e.Rand), dhke.WithProgress(sink))
}

// Close flushes pending progress records.
func (e *Env) Close() {
	for _, stop := range e.stops {
		stop()
	}
	e.stops = nil
}
