package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/cli"
	"github.com/noah-isme/asap-api/internal/config"
	"github.com/noah-isme/asap-api/internal/database"
	"github.com/noah-isme/asap-api/internal/repository"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/pkg/ai"
)

func main() {
	if err := run(); err != nil {
		var rf *ai.RemoteFailure
		if errors.As(err, &rf) {
			fmt.Fprintf(os.Stderr, "Error: %v (%s)\n", err, rf.Detail())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithoutCredential()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	app := &cli.App{
		Encoder:   service.NewUploadEncoder(cfg.UploadMaxSizeMB, logger),
		Assembler: ai.NewAssembler(nil),
		NewEvaluator: func() (service.Evaluator, error) {
			client, err := ai.NewClient(ai.ClientConfig{
				Provider:    cfg.AIProvider,
				APIKey:      cfg.AIAPIKey,
				Model:       cfg.AIModel,
				Temperature: cfg.AITemperature,
				Timeout:     cfg.AITimeout,
				Logger:      logger,
			})
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		OpenReports: func(ctx context.Context) (service.ReportService, func(), error) {
			conns, err := database.Open(ctx, cfg)
			if err != nil {
				return nil, nil, fmt.Errorf("opening %s store: %w", cfg.StorageDriver, err)
			}

			var store repository.KeyValueStore
			if conns.Redis != nil {
				store = repository.NewRedisKeyValueStore(conns.Redis, "asap")
			} else {
				store = repository.NewGormKeyValueStore(conns.DB)
			}

			reports := service.NewReportService(repository.NewReportRepository(store), repository.NewRemoteReportAPI("", logger), nil, logger)
			return reports, conns.Close, nil
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
