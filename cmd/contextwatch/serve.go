package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/Dhruv-80/context-watch/internal/api"
	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/tokenizer"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxTokens   int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "default generation cap for API runs",
			Value:       50,
			Destination: &maxTokens,
		},
	}
	flags = append(flags, modelFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve instrumented runs over HTTP",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fileCfg := LoadConfig()
			applyLoggingConfig(c, fileCfg)
			applyModelConfig(c, fileCfg)
			applyServeConfig(c, fileCfg, &addr)
			log := buildLogger()

			defaults := inference.Config{
				MaxNewTokens: int(maxTokens),
				StopTokens:   stopTokens(),
				ContextLimit: int(contextLimit),
			}
			service := api.NewRunService(newDemoModel(), tokenizer.ByteTokenizer{}, defaults, log)
			server := api.NewServer(api.NewRunStore(), service)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
