package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/armoss/internal/config"
	"github.com/standardbeagle/armoss/internal/engine"
	"github.com/standardbeagle/armoss/internal/scan"
	"github.com/standardbeagle/armoss/internal/types"
	"github.com/standardbeagle/armoss/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	if configPath == "" {
		configPath = filepath.Join(c.String("root"), ".armoss.kdl")
	}

	cfg, err := config.LoadKDL(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if c.IsSet("tokenizer") {
		cfg.Analysis.Tokenizer = c.String("tokenizer")
	}
	if c.IsSet("noise") {
		cfg.Analysis.NoiseThreshold = c.Int("noise")
	}
	if c.IsSet("guarantee") {
		cfg.Analysis.GuaranteeThreshold = c.Int("guarantee")
	}
	if c.IsSet("max-offset") {
		cfg.Analysis.MaxTokenOffset = c.Int("max-offset")
	}
	if c.IsSet("workers") {
		cfg.Performance.Workers = c.Int("workers")
	}
	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}

	absRoot, err := filepath.Abs(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", c.String("root"), err)
	}
	cfg.Project.Root = absRoot

	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := config.Validate(cfg); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	scanner := &scan.Scanner{
		Root:    cfg.Project.Root,
		Ignore:  c.StringSlice("ignore"),
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	}
	scanned, err := scanner.Scan()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	report, err := engine.Run(context.Background(), cfg, scanned.Projects, scanned.Starter)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Wrapper-stage warnings join the engine's before serialization
	merged := make([]types.Warning, 0, len(scanned.Warnings)+len(report.Warnings))
	merged = append(merged, scanned.Warnings...)
	merged = append(merged, report.Warnings...)
	types.SortWarnings(merged)
	report.Warnings = merged

	if err := writeReport(report, c.String("output")); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// writeReport serializes the report. The whole document is built in memory
// first so that failures never leave a partial file behind.
func writeReport(report *types.Report, output string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	if output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", output, err)
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   version.Name,
		Usage:                  version.Description,
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "root",
				Aliases:  []string{"r"},
				Usage:    "Analysis root; each direct child directory is one project",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "Starter-code file or directory (repeatable)",
			},
			&cli.StringFlag{
				Name:  "tokenizer",
				Usage: "Tokenizer variant: naive or relative",
			},
			&cli.IntFlag{
				Name:  "noise",
				Usage: "Noise threshold k: minimum match length in tokens",
			},
			&cli.IntFlag{
				Name:  "guarantee",
				Usage: "Guarantee threshold t: matches this long are always reported",
			},
			&cli.IntFlag{
				Name:  "max-offset",
				Usage: "Clamp for relative back-references (-1 = unclamped)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report destination (default stdout)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default <root>/.armoss.kdl)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker goroutines (0 = number of CPUs)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g. --include '**/*.s')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.SetFlags(0)
		log.Fatal(err)
	}
}
