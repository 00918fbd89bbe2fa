// Command reflow reconstructs layout-preserving text from a PDF and prints
// it, optionally extracting tables from the reconstructed pages with an LLM.
//
// Usage:
//
//	reflow [flags] document.pdf
//
// Configuration comes from an optional TOML file; flags override it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"

	"github.com/tsawler/reflow"
	"github.com/tsawler/reflow/events"
	"github.com/tsawler/reflow/extract"
)

type config struct {
	MaxPages       int    `toml:"max_pages" validate:"gte=1,lte=500"`
	Language       string `toml:"language" validate:"required"`
	TokenThreshold int    `toml:"token_threshold" validate:"gte=0"`

	Extract extractConfig `toml:"extract"`
}

type extractConfig struct {
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	RowThreshold int    `toml:"row_threshold" validate:"gte=0"`
}

func defaultConfig() config {
	return config{
		MaxPages:       10,
		Language:       "eng",
		TokenThreshold: 10,
	}
}

// loadConfig merges the TOML file at path (when given) over the defaults and
// validates the result.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML configuration file")
		outPath    = flag.String("out", "", "write the reconstructed text to this file instead of stdout")
		tables     = flag.Bool("tables", false, "extract tables from the reconstructed pages (requires an Anthropic API key)")
		maxPages   = flag.Int("max-pages", 0, "override the page cap")
		lang       = flag.String("lang", "", "override the OCR language(s), e.g. \"eng+nld\"")
		verbose    = flag.Bool("verbose", false, "log per-page progress")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] document.pdf\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)

	logger := log.Logger{
		Level:  log.WarnLevel,
		Writer: &log.ConsoleWriter{ColorOutput: true, Writer: os.Stderr},
	}
	if *verbose {
		logger.Level = log.InfoLevel
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	if *lang != "" {
		cfg.Language = *lang
	}
	if cfg.Extract.APIKey == "" {
		cfg.Extract.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, input, *outPath, *tables, cfg, &logger); err != nil {
		logger.Fatal().Err(err).Msg("reflow failed")
	}
}

func run(ctx context.Context, input, outPath string, tables bool, cfg config, logger *log.Logger) error {
	result, warnings, err := reflow.Open(input).
		MaxPages(cfg.MaxPages).
		Language(cfg.Language).
		TokenThreshold(cfg.TokenThreshold).
		WithSink(events.NewLogSink(logger)).
		Parse(ctx)
	if err != nil {
		return err
	}

	if len(warnings) > 0 {
		logger.Warn().Str("warnings", reflow.FormatWarnings(warnings)).Msg("parse completed with warnings")
	}
	logger.Info().
		Str("method", string(result.Method)).
		Int("pages", len(result.PagesText)).
		Int("tokens", result.TokenCount).
		Msg("document reconstructed")

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := fmt.Fprintln(out, result.RawText); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if !tables {
		return nil
	}
	if cfg.Extract.APIKey == "" {
		return fmt.Errorf("table extraction needs an API key (extract.api_key or ANTHROPIC_API_KEY)")
	}

	extractor := extract.New(extract.Config{
		APIKey:       cfg.Extract.APIKey,
		Model:        cfg.Extract.Model,
		RowThreshold: cfg.Extract.RowThreshold,
		Logger:       logger,
	})
	found, err := extractor.ExtractFromPages(ctx, result.PagesText)
	if err != nil {
		return fmt.Errorf("extract tables: %w", err)
	}
	logger.Info().Int("tables", len(found)).Msg("table extraction finished")

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	for _, table := range found {
		if err := enc.Encode(table); err != nil {
			return fmt.Errorf("encode table: %w", err)
		}
	}
	return nil
}
