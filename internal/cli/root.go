package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	"github.com/reviewlens/reviewlens/internal/core/config"
	"github.com/reviewlens/reviewlens/internal/core/storage/sqlite"
	"github.com/reviewlens/reviewlens/internal/migrations"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	output     string
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		if isUsageError(err) {
			return ExitUsageError
		}
		return ExitRuntimeError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "reviewlensctl",
		Short:         "Operate the reviewlens review cache",
		Long:          "reviewlensctl inspects and maintains the review cache store and runs one-off review fetches.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputJSON && opts.output != outputYAML {
				return usageErrorf("invalid --output %q (must be json or yaml)", opts.output)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (defaults and REVIEWLENS_ env vars when empty)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "Output format: json or yaml")

	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newClearCmd(opts))
	root.AddCommand(newCleanupCmd(opts))
	root.AddCommand(newFetchCmd(opts))

	return root
}

// env is the wiring every command shares: config, store and cache service.
type env struct {
	cfg   *config.Config
	store *sqlite.Adapter
	cache *cache.Service
}

func openEnv(ctx context.Context, opts *options) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.Open(cfg.Database.Path, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("opening review store: %w", err)
	}
	if err := migrations.RunMigrations(store.DB(), cfg.Database.AutoMigrate); err != nil {
		store.Close()
		return nil, err
	}
	if err := store.ValidateSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &env{
		cfg:   cfg,
		store: store,
		cache: cache.NewService(store, cachekey.NewPolicy(cfg.Cache.TTLDuration())),
	}, nil
}

func (e *env) Close() {
	e.store.Close()
}

// render writes v to w in the requested format.
func render(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func isUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue) || errors.Is(err, cachekey.ErrInvalidQuery)
}
