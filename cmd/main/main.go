package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/CTAG07/typechain/pkg/graphexport"
	"github.com/CTAG07/typechain/pkg/markov"
	"github.com/CTAG07/typechain/pkg/store"
	"github.com/natefinch/atomic"
	"github.com/redis/go-redis/v9"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const usageText = `usage: typechain [flags] [constraint ...]

Constraints, one per generated token:
  *  or _     any successor, chosen by weight
  N           a word of exactly N characters
  f:DIGITS    a word typed with the given finger classes (0-4 per character)

Flags:
`

// options holds the parsed command line.
type options struct {
	configPath  string
	source      string
	graph       string
	format      string
	load        string
	save        string
	seed        uint64
	shape       string
	mode        string
	showVersion bool
	constraints []string
	set         map[string]bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("typechain", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "config", "./typechain.json", "path to the JSON config file")
	fs.StringVar(&o.source, "source", "", "train on the text file at this path")
	fs.StringVar(&o.graph, "graph", "", "write the chain's links to this path")
	fs.StringVar(&o.format, "format", "", "graph format: edges or dot")
	fs.StringVar(&o.load, "load", "", "load the named chain from the store before training")
	fs.StringVar(&o.save, "save", "", "save the chain to the store under this name after training")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed for unconstrained steps (0 is random)")
	fs.StringVar(&o.shape, "shape", "", "derive constraints from the words of this phrase")
	fs.StringVar(&o.mode, "mode", "", "how -shape derives constraints: length or fingers")
	fs.BoolVar(&o.showVersion, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.constraints = fs.Args()
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintf(os.Stderr, "typechain: %v\n", err)
		os.Exit(1)
	}
}

// run trains, persists, exports and generates according to args. Generated
// text is written to stdout; logs go to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		_, err = fmt.Fprintf(stdout, "typechain %s (%s, built %s)\n", Version, Commit, BuildDate)
		return err
	}

	config, err := LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(config, opts)

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))

	constraints, err := buildConstraints(opts, config.ShapeMode)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var chainStore store.Store
	if opts.load != "" || opts.save != "" {
		chainStore, err = openStore(ctx, config.Store, logger)
		if err != nil {
			return fmt.Errorf("failed to open %s store: %w", config.Store.Kind, err)
		}
		defer func(s store.Store) {
			if err := s.Close(); err != nil {
				logger.Warn("Failed to close store", "error", err)
			}
		}(chainStore)
	}

	chain := markov.NewChain()
	if opts.load != "" {
		chain, err = chainStore.Load(ctx, opts.load)
		if err != nil {
			return fmt.Errorf("failed to load chain: %w", err)
		}
	}
	chain.SetLogger(logger)

	if opts.source != "" {
		if err = trainFromFile(chain, opts.source); err != nil {
			return err
		}
	}

	if opts.save != "" {
		if err = chainStore.Save(ctx, opts.save, chain); err != nil {
			return fmt.Errorf("failed to save chain: %w", err)
		}
	}

	if opts.graph != "" {
		if err = exportGraph(chain, opts.graph, config.GraphFormat); err != nil {
			return err
		}
		logger.Info("Graph exported", "path", opts.graph, "format", config.GraphFormat)
	}

	if len(constraints) == 0 {
		return nil
	}

	var genOpts []markov.GenerateOption
	if config.Seed != 0 {
		genOpts = append(genOpts, markov.WithRand(rand.New(rand.NewPCG(config.Seed, config.Seed))))
	}
	tokens, err := chain.Generate(constraints, genOpts...)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	_, err = fmt.Fprintln(stdout, chain.Join(tokens))
	return err
}

// applyOverrides copies explicitly set flags over the config values.
func applyOverrides(config *Config, opts *options) {
	if opts.set["seed"] {
		config.Seed = opts.seed
	}
	if opts.set["format"] {
		config.GraphFormat = opts.format
	}
	if opts.set["mode"] {
		config.ShapeMode = opts.mode
	}
}

func buildConstraints(opts *options, mode string) ([]markov.Constraint, error) {
	if opts.shape != "" {
		if len(opts.constraints) > 0 {
			return nil, errors.New("-shape cannot be combined with positional constraints")
		}
		switch strings.ToLower(mode) {
		case "length", "":
			return markov.LengthShape(opts.shape), nil
		case "fingers":
			constraints, err := markov.FingerShape(opts.shape)
			if err != nil {
				return nil, fmt.Errorf("cannot derive finger shape: %w", err)
			}
			return constraints, nil
		default:
			return nil, fmt.Errorf("unknown shape mode %q", mode)
		}
	}
	return markov.ParseConstraints(opts.constraints)
}

func openStore(ctx context.Context, cfg *StoreConfig, logger *slog.Logger) (store.Store, error) {
	switch strings.ToLower(cfg.Kind) {
	case "file", "":
		return store.NewFileStore(cfg.DataDir, logger)
	case "sqlite":
		db, err := initDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err = store.SetupSchema(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to setup chain schema: %w", err)
		}
		logger.Debug("Opened chain database", "driver", sqliteDriver, "path", cfg.DatabasePath)
		return store.NewSQLiteStore(db, logger), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return store.NewRedisStore(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

func trainFromFile(chain *markov.Chain, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open training source: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	if err = chain.Train(file); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	return nil
}

func exportGraph(chain *markov.Chain, path, format string) error {
	f, err := graphexport.ParseFormat(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = graphexport.Write(&buf, chain, f); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}
	if err = atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return nil
}
