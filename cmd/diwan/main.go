// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/diwan"
	"github.com/poiesic/diwan/config"
	"github.com/poiesic/diwan/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "diwan",
		Usage: "Heritage corpus processing pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "process",
				Usage:  "Process a single document through the pipeline",
				Action: processCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Source path relative to the storage root",
						Required: true,
					},
				),
			},
			{
				Name:   "batch",
				Usage:  "Process every supported file under a storage prefix",
				Action: batchCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "prefix",
						Aliases:  []string{"p"},
						Usage:    "Storage prefix to enumerate",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size (0 uses half the CPUs)",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML config file",
		},
		&cli.StringFlag{
			Name:  "storage-root",
			Usage: "Artifact storage root directory (overrides config)",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Source collection label recorded in manifests",
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "Corpus language: ar, en, or mixed (overrides config)",
		},
		&cli.BoolFlag{
			Name:  "no-lineage",
			Usage: "Disable the lineage sink",
		},
	}
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if root := c.String("storage-root"); root != "" {
		cfg.Storage.Root = root
	}
	if lang := c.String("language"); lang != "" {
		cfg.Language = lang
	}
	if c.Bool("no-lineage") {
		cfg.Lineage.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func processCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, err := diwan.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble pipeline: %w", err)
	}
	defer p.Close()

	result := p.Orchestrator().ProcessFile(context.Background(), c.String("file"), c.String("collection"))

	fmt.Fprintf(os.Stderr, "run %s: %s (stage %s, %d chunks)\n",
		result.RunID, result.Status, result.StageReached, result.ChunksProduced())
	if result.Status == pipeline.StatusError {
		return fmt.Errorf("processing failed: %s", result.Error)
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Workers = workers
	}

	p, err := diwan.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble pipeline: %w", err)
	}
	defer p.Close()

	opts := []pipeline.RunnerOption{
		pipeline.WithProgress(os.Stderr, c.Int("report-interval")),
	}
	if cfg.Workers > 0 {
		opts = append(opts, pipeline.WithWorkers(cfg.Workers))
	}
	runner, err := pipeline.NewRunner(p.Orchestrator(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Release()

	if _, err := runner.ProcessPrefix(context.Background(), c.String("prefix"), c.String("collection")); err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	stats, err := json.MarshalIndent(p.Orchestrator().Stats(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(stats))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
