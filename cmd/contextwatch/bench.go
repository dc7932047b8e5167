package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/Dhruv-80/context-watch/internal/bench"
	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/logger"
	"github.com/Dhruv-80/context-watch/internal/monitor"
	"github.com/Dhruv-80/context-watch/internal/tokenizer"
)

func benchCmd() *cli.Command {
	var (
		warmupRuns    int64
		benchRuns     int64
		prompt        string
		maxTokens     int64
		warnThreshold float64
		window        int64
		memoryCadence int64
		jsonOut       bool
		outPath       string
	)

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of measured runs",
			Value:       5,
			Destination: &benchRuns,
		},
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "prompt text",
			Value:       "the quick brown fox jumps over the lazy dog",
			Destination: &prompt,
		},
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "maximum tokens to generate per run",
			Value:       128,
			Destination: &maxTokens,
		},
		&cli.Float64Flag{
			Name:        "warn-threshold",
			Usage:       "context occupancy percentage that triggers the warning",
			Value:       monitor.DefaultWarnThresholdPct,
			Destination: &warnThreshold,
		},
		&cli.Int64Flag{
			Name:        "window",
			Usage:       "rolling latency window size",
			Value:       monitor.DefaultRollingWindow,
			Destination: &window,
		},
		&cli.Int64Flag{
			Name:        "memory-cadence",
			Usage:       "generated tokens between memory samples",
			Value:       inference.DefaultMemorySampleCadence,
			Destination: &memoryCadence,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the aggregate report as JSON",
			Destination: &jsonOut,
		},
		&cli.StringFlag{
			Name:        "out",
			Usage:       "write the JSON report to a file",
			Destination: &outPath,
		},
	}
	flags = append(flags, modelFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "bench",
		Usage: "Aggregate instrumentation across repeated runs",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fileCfg := LoadConfig()
			applyLoggingConfig(c, fileCfg)
			applyModelConfig(c, fileCfg)
			applyRunConfig(c, fileCfg, &maxTokens, &warnThreshold, &window, &memoryCadence)
			log := buildLogger()

			if benchRuns <= 0 {
				return cli.Exit("error: --runs must be positive", 1)
			}

			tok := tokenizer.ByteTokenizer{}
			ids, err := tok.Encode(prompt)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode prompt: %v", err), 1)
			}

			// Every run would repeat the context warning on stderr, so the
			// loop itself logs nothing here.
			loop, err := inference.NewLoop(newDemoModel(), inference.Config{
				MaxNewTokens:        int(maxTokens),
				StopTokens:          stopTokens(),
				ContextLimit:        int(contextLimit),
				WarnThresholdPct:    warnThreshold,
				RollingWindow:       int(window),
				MemorySampleCadence: int(memoryCadence),
				Logger:              logger.Nop(),
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: configure loop: %v", err), 1)
			}

			for i := range int(warmupRuns) {
				log.Info("warmup run", "run", i+1)
				if _, err := loop.Run(ctx, ids, nil); err != nil {
					return cli.Exit(fmt.Sprintf("error: warmup run %d: %v", i+1, err), 1)
				}
			}

			bar := progressbar.NewOptions(int(benchRuns),
				progressbar.OptionSetDescription("bench"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("runs"),
				progressbar.OptionSetTheme(progressbar.ThemeUnicode),
				progressbar.OptionClearOnFinish(),
			)
			results := make([]*inference.Result, 0, benchRuns)
			for i := range int(benchRuns) {
				log.Debug("bench run", "run", i+1)
				result, err := loop.Run(ctx, ids, nil)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: bench run %d: %v", i+1, err), 1)
				}
				results = append(results, result)
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			rep := bench.Aggregate(results)

			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create report file: %v", err), 1)
				}
				werr := writeJSON(f, rep)
				cerr := f.Close()
				if werr != nil {
					return cli.Exit(fmt.Sprintf("error: write report: %v", werr), 1)
				}
				if cerr != nil {
					return cli.Exit(fmt.Sprintf("error: close report file: %v", cerr), 1)
				}
				log.Info("report written", "path", outPath)
			}

			if jsonOut {
				return writeJSON(os.Stdout, rep)
			}
			fmt.Println(renderBenchReport(rep))
			return nil
		},
	}
}
