package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Dhruv-80/context-watch/internal/logger"
	"github.com/Dhruv-80/context-watch/internal/tokenizer"
	"github.com/Dhruv-80/context-watch/internal/toy"
)

var (
	vocabSize    int64
	hiddenSize   int64
	modelContext int64
	contextLimit int64
	seed         int64
	eosToken     int64
	logLevel     string
	logFormat    string
	debug        bool
)

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "vocab",
			Usage:       "demo model vocabulary size",
			Value:       int64(tokenizer.ByteVocabSize),
			Destination: &vocabSize,
		},
		&cli.Int64Flag{
			Name:        "hidden",
			Usage:       "demo model hidden state width",
			Value:       64,
			Destination: &hiddenSize,
		},
		&cli.Int64Flag{
			Name:        "model-context",
			Usage:       "context window the demo model reports (0 = unknown)",
			Value:       1024,
			Destination: &modelContext,
		},
		&cli.Int64Flag{
			Name:        "context-limit",
			Aliases:     []string{"ctx", "c"},
			Usage:       "override the tracked context limit (0 = use the model's)",
			Destination: &contextLimit,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "demo model weight seed",
			Value:       42,
			Destination: &seed,
		},
		&cli.Int64Flag{
			Name:        "eos",
			Usage:       "end-of-text token id (-1 = disabled)",
			Value:       int64(tokenizer.ByteEOS),
			Destination: &eosToken,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func buildLogger() logger.Logger {
	level := logLevel
	if debug {
		level = "debug"
	}
	return logger.New(os.Stderr, logger.Format(logFormat), logger.ParseLevel(level))
}

func stopTokens() []int {
	if eosToken < 0 {
		return nil
	}
	return []int{int(eosToken)}
}

func newDemoModel() *toy.LM {
	return toy.NewLM(int(vocabSize), int(hiddenSize), int(modelContext), seed)
}
