// Package cli implements reviewctl, the operator command line for the
// review engine's document store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcards-backend/internal/app"
	"github.com/heartmarshall/flashcards-backend/internal/config"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// Env holds the collaborators commands reach for. Tests replace them.
type Env struct {
	LoadConfig func(path string) (*config.Config, error)
	OpenStore  func(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*app.Store, error)
	Now        func() time.Time
}

// DefaultEnv reads config from file and environment and opens the
// configured store.
func DefaultEnv() Env {
	return Env{
		LoadConfig: config.LoadFile,
		OpenStore:  app.OpenStore,
		Now:        time.Now,
	}
}

// RootOptions holds global flags.
type RootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool
}

type runner struct {
	opts *RootOptions
	env  Env
}

// NewRootCommand creates the reviewctl root command.
func NewRootCommand(env Env) *cobra.Command {
	opts := &RootOptions{}
	r := &runner{opts: opts, env: env}

	cmd := &cobra.Command{
		Use:   "reviewctl",
		Short: "Operate the flashcard review store",
		Long: `reviewctl inspects and maintains account progress in the document store:
legacy layout migration, progress summaries, due cards, seed validation and
development access tokens.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (default: $CONFIG_PATH or environment only)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level to stderr")

	cmd.AddCommand(newMigrateCommand(r))
	cmd.AddCommand(newProgressCommand(r))
	cmd.AddCommand(newDueCommand(r))
	cmd.AddCommand(newSeedsCommand(r))
	cmd.AddCommand(newTokenCommand(r))

	return cmd
}

func (r *runner) config() (*config.Config, error) {
	cfg, err := r.env.LoadConfig(r.opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (r *runner) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if r.opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// open loads config and opens the store. The caller must call the
// returned release function.
func (r *runner) open(cmd *cobra.Command) (*config.Config, *app.Store, *slog.Logger, error) {
	cfg, err := r.config()
	if err != nil {
		return nil, nil, nil, err
	}
	log := r.logger(cmd)
	store, err := r.env.OpenStore(cmd.Context(), cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, store, log, nil
}

// emit writes v as indented JSON or runs text.
func (r *runner) emit(w io.Writer, v any, text func(io.Writer)) error {
	if r.opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
