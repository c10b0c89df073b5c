package main

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/hayeah/repocat"
	"github.com/hayeah/repocat/internal/metrics"
)

// Args defines the command-line arguments
type Args struct {
	Input          string `arg:"-i,--input,required" help:"GitHub repo URL or local folder path"`
	Output         string `arg:"-o,--output" default:"concatenated_output.txt" help:"Output file name"`
	Config         string `arg:"-c,--config" help:"Optional JSON config file listing allowed file extensions"`
	Include        string `arg:"--include" help:"Comma-delimited include glob patterns"`
	Exclude        string `arg:"--exclude" help:"Comma-delimited exclude glob patterns"`
	TokenEstimator string `arg:"--token-estimator" default:"simple" help:"Token count estimator to use: 'simple' (size/4) or 'tiktoken'"`
	Verbose        bool   `arg:"-v,--verbose" help:"Enable debug logging"`
}

// Runner encapsulates the state and behavior for one flatten run
type Runner struct {
	Args   Args
	Logger *zap.Logger
}

// NewRunner creates and initializes a new Runner
func NewRunner(args Args) (*Runner, error) {
	cfg := zap.NewProductionConfig()
	if args.Verbose {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Runner{Args: args, Logger: logger}, nil
}

// Run executes the flatten pipeline: acquire the root directory, build the
// selection rules, and stream every selected file into the output.
func (r *Runner) Run() error {
	var cfg *repocat.Config
	if r.Args.Config != "" {
		loaded, err := repocat.LoadConfig(r.Args.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	rules, err := repocat.BuildRules(cfg, r.Args.Include, r.Args.Exclude)
	if err != nil {
		return err
	}

	counter, err := r.counter()
	if err != nil {
		return err
	}

	src, err := repocat.Resolve(r.Args.Input, repocat.DefaultFetchers(), r.Logger)
	if err != nil {
		return err
	}
	defer src.Close()

	flattener := repocat.NewFlattener(rules, counter, r.Logger)
	totals, err := flattener.Flatten(src.Root, r.Args.Output)
	if err != nil {
		return err
	}

	r.Logger.Info("run complete",
		zap.Int("files", totals.Files),
		zap.Int("bytes", totals.Bytes),
		zap.Int("tokens", totals.Tokens))

	fmt.Printf("All text files have been concatenated into '%s'\n", r.Args.Output)
	return nil
}

// counter selects the token estimator based on the flag
func (r *Runner) counter() (metrics.Counter, error) {
	switch r.Args.TokenEstimator {
	case "tiktoken":
		counter, err := metrics.NewTiktokenCounter("gpt-3.5-turbo")
		if err != nil {
			// Fall back to the simple counter if the model data is unavailable
			r.Logger.Warn("tiktoken unavailable, falling back to simple estimator", zap.Error(err))
			return metrics.SimpleCounter{}, nil
		}
		return counter, nil
	case "simple":
		return metrics.SimpleCounter{}, nil
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", r.Args.TokenEstimator)
	}
}

// main is our entrypoint: parse args and run the pipeline
func main() {
	var args Args
	arg.MustParse(&args)

	runner, err := NewRunner(args)
	if err != nil {
		log.Fatal(err)
	}
	defer runner.Logger.Sync()

	if err := runner.Run(); err != nil {
		runner.Logger.Sync()
		log.Fatal(err)
	}
}
