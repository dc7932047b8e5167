package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/monitor"
	"github.com/Dhruv-80/context-watch/internal/tokenizer"
)

func runCmd() *cli.Command {
	var (
		prompt        string
		maxTokens     int64
		warnThreshold float64
		window        int64
		memoryCadence int64
		jsonOut       bool
		quiet         bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "prompt text",
			Required:    true,
			Destination: &prompt,
		},
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "maximum tokens to generate",
			Value:       50,
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
			Usage:       "print the report as JSON",
			Destination: &jsonOut,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "suppress streamed text",
			Destination: &quiet,
		},
	}
	flags = append(flags, modelFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "run",
		Usage: "Run one instrumented decode loop",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fileCfg := LoadConfig()
			applyLoggingConfig(c, fileCfg)
			applyModelConfig(c, fileCfg)
			applyRunConfig(c, fileCfg, &maxTokens, &warnThreshold, &window, &memoryCadence)
			log := buildLogger()

			loop, err := inference.NewLoop(newDemoModel(), inference.Config{
				MaxNewTokens:        int(maxTokens),
				StopTokens:          stopTokens(),
				ContextLimit:        int(contextLimit),
				WarnThresholdPct:    warnThreshold,
				RollingWindow:       int(window),
				MemorySampleCadence: int(memoryCadence),
				Logger:              log,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: configure loop: %v", err), 1)
			}

			tok := tokenizer.ByteTokenizer{}
			ids, err := tok.Encode(prompt)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode prompt: %v", err), 1)
			}
			log.Debug("prompt encoded", "tokens", len(ids))

			stream := func(token int) {
				if quiet {
					return
				}
				text, err := tok.Decode([]int{token})
				if err != nil {
					return
				}
				fmt.Print(text)
			}

			result, err := loop.Run(ctx, ids, stream)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: generation: %v", err), 1)
			}
			if !quiet {
				fmt.Println()
			}

			if jsonOut {
				return writeJSON(os.Stdout, result)
			}
			fmt.Println(renderRunReport(result))
			return nil
		},
	}
}
