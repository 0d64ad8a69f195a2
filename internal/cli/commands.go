package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/seed"
	"github.com/heartmarshall/flashcards-backend/internal/app"
	"github.com/heartmarshall/flashcards-backend/internal/auth"
	"github.com/heartmarshall/flashcards-backend/internal/cache"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
	"github.com/heartmarshall/flashcards-backend/internal/service/migration"
	"github.com/heartmarshall/flashcards-backend/internal/service/review"
)

func newMigrateCommand(r *runner) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate <account-id>",
		Short: "Consolidate an account's legacy per-set progress into its profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, log, err := r.open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := migration.NewService(log, store)
			accountID := args[0]

			if dryRun {
				needed, err := svc.NeedsMigration(cmd.Context(), accountID)
				if err != nil {
					return err
				}
				return r.emit(cmd.OutOrStdout(), map[string]any{"accountId": accountID, "needsMigration": needed}, func(w io.Writer) {
					fmt.Fprintf(w, "%s: needs migration: %t\n", accountID, needed)
				})
			}

			res, err := svc.Migrate(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return r.emit(cmd.OutOrStdout(), res, func(w io.Writer) {
				if res.Skipped {
					fmt.Fprintf(w, "%s: already consolidated\n", accountID)
					return
				}
				fmt.Fprintf(w, "%s: migrated %d card sets in %d operations\n", accountID, len(res.MigratedSets), res.Operations)
				for _, e := range res.Errors {
					fmt.Fprintf(w, "  quarantined %s: %s\n", e.CardSetID, e.Message)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report whether migration is needed")
	return cmd
}

// withCache loads the account cache the way the server does and flushes it
// when fn returns.
func (r *runner) withCache(cmd *cobra.Command, accountID string, fn func(m *cache.Manager) error) error {
	cfg, store, log, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := cache.NewRegistry(log, store, seed.NewLoader(os.DirFS(cfg.Seed.Dir)), migration.NewService(log, store), app.CacheConfig(cfg.Sync))
	defer registry.Shutdown(cmd.Context()) //nolint:errcheck

	m, err := registry.Manager(cmd.Context(), accountID)
	if err != nil {
		return err
	}
	return fn(m)
}

func newProgressCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <account-id> [card-set-id]",
		Short: "Print card-set progress summaries of an account",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withCache(cmd, args[0], func(m *cache.Manager) error {
				all := m.GetAllProgress()
				if len(args) == 2 {
					p, ok := all[args[1]]
					if !ok {
						return fmt.Errorf("progress of %s: %w", args[1], domain.ErrNotFound)
					}
					all = map[string]domain.CardSetProgress{args[1]: p}
				}
				return r.emit(cmd.OutOrStdout(), all, func(w io.Writer) { printProgress(w, all) })
			})
		},
	}
}

func printProgress(w io.Writer, all map[string]domain.CardSetProgress) {
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CARD SET\tREVIEWED\tTOTAL\tPROGRESS\tMASTERED\tNEED PRACTICE")
	for _, id := range ids {
		p := all[id]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d%%\t%d\t%d\n", id, p.ReviewedCards, p.TotalCards, p.ProgressPercentage, p.MasteredCards, p.NeedPracticeCards)
	}
	tw.Flush()
}

func newDueCommand(r *runner) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "due <account-id> <card-set-id>",
		Short: "List the cards of a set due today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withCache(cmd, args[0], func(m *cache.Manager) error {
				cards, err := m.GetCards(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				due := review.DueCards(cards, r.env.Now(), limit)
				return r.emit(cmd.OutOrStdout(), due, func(w io.Writer) {
					for _, c := range due {
						state := "new"
						if !c.IsNew && c.NextReviewDate != nil {
							state = c.NextReviewDate.Format(time.DateOnly)
						}
						fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Front, state)
					}
					fmt.Fprintf(w, "%d of %d cards due\n", len(due), len(cards))
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum cards to list (0 = all)")
	return cmd
}

func newSeedsCommand(r *runner) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Validate the card-set seed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := r.config()
				if err != nil {
					return err
				}
				dir = cfg.Seed.Dir
			}

			seeds, err := seed.NewLoader(os.DirFS(dir)).All(cmd.Context())
			if err != nil {
				return err
			}
			return r.emit(cmd.OutOrStdout(), seeds, func(w io.Writer) {
				for _, s := range seeds {
					fmt.Fprintf(w, "%s\t%q\t%d cards\n", s.ID, s.Title, len(s.Cards))
				}
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "seed directory (default: seed.dir from config)")
	return cmd
}

func newTokenCommand(r *runner) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <account-id>",
		Short: "Issue an access token for local development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.config()
			if err != nil {
				return err
			}
			token, err := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer).Issue(args[0], ttl)
			if err != nil {
				return err
			}
			return r.emit(cmd.OutOrStdout(), map[string]string{"token": token}, func(w io.Writer) {
				fmt.Fprintln(w, token)
			})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

