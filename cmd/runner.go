package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/roster/internal/services"
	"github.com/desertthunder/roster/internal/shared"
	"github.com/desertthunder/roster/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	source     services.Source
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Source or API is built from the loaded configuration before any command runs.
type RunnerOpts struct {
	Config     *shared.Config
	Source     services.Source
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		source:     opts.Source,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// command builds the root command with global flags and every subcommand registered.
func (r *Runner) command() *cli.Command {
	return &cli.Command{
		Name:     "roster",
		Usage:    "Browse and filter a directory of users from the terminal",
		Version:  "0.1.0",
		Writer:   r.output,
		Flags:    globalFlags(),
		Before:   r.setup,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		usersCommand, apiCommand, configCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// setup loads the configuration named by --config, applies the log level and builds services that were not
// injected.
//
// A missing default config.toml is not an error; an explicitly passed path must exist.
func (r *Runner) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("config loaded", "path", path)
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if r.source == nil {
		r.source = services.NewRandomUserService(services.RandomUserOpts{
			BaseURL:       r.config.Source.BaseURL,
			Results:       r.config.Source.Results,
			Seed:          r.config.Source.Seed,
			Nationalities: r.config.Source.Nationalities,
			RateLimit:     r.config.Source.RateLimit,
			HTTPClient:    r.httpClient,
		})
	}
	if r.api == nil {
		r.api = services.NewAPIService(r.config.Source.BaseURL, r.httpClient)
	}

	return ctx, nil
}

// loadStore performs a single load into a fresh store, bounded by the configured timeout.
func (r *Runner) loadStore(ctx context.Context) (*store.Store, error) {
	if r.source == nil {
		return nil, fmt.Errorf("%w: user source not initialized", shared.ErrServiceUnavailable)
	}

	if timeout := r.config.Source.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.logger.Debug("loading users", "source", r.source.Name())

	st := store.New()
	if _, err := st.Load(ctx, r.source); err != nil {
		return nil, err
	}

	r.logger.Debug("users loaded", "count", st.Len())
	return st, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
