// Package migration consolidates the legacy per-set progress documents of an
// account into the cardSetsProgress map of its profile document.
package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type documentStore interface {
	Get(ctx context.Context, path string) (*docstore.Document, error)
	List(ctx context.Context, collection string) ([]docstore.Document, error)
	BatchWrite(ctx context.Context, writes []docstore.Write) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service runs the one-time fragmented-to-consolidated layout migration.
type Service struct {
	store    documentStore
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new migration service.
func NewService(log *slog.Logger, store documentStore) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		log:      log.With("service", "migration"),
		now:      time.Now,
	}
}

// SetError records a legacy document that could not be migrated.
type SetError struct {
	CardSetID string `json:"cardSetId"`
	Message   string `json:"message"`
}

// Result summarises one migration run.
type Result struct {
	AccountID    string     `json:"accountId"`
	MigratedSets []string   `json:"migratedSets"`
	Errors       []SetError `json:"errors,omitempty"`
	// Operations counts documents written or deleted.
	Operations int  `json:"operations"`
	Skipped    bool `json:"skipped"`
}

// NeedsMigration reports whether the account still has legacy progress
// documents, no profile at all, or a profile below the current schema version.
func (s *Service) NeedsMigration(ctx context.Context, accountID string) (bool, error) {
	legacy, err := s.store.List(ctx, docstore.LegacyProgressCollection(accountID))
	if err != nil {
		return false, fmt.Errorf("migration.NeedsMigration: list legacy: %w", err)
	}
	if len(legacy) > 0 {
		return true, nil
	}

	profile, found, err := s.loadProfile(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("migration.NeedsMigration: %w", err)
	}
	return !found || profile.SchemaVersion < domain.CurrentSchemaVersion, nil
}

// Migrate merges every legacy document into the profile and deletes the
// legacy documents in a single atomic batch. Running it again on a migrated
// account performs no writes.
func (s *Service) Migrate(ctx context.Context, accountID string) (Result, error) {
	res := Result{AccountID: accountID, MigratedSets: []string{}}

	legacyDocs, err := s.store.List(ctx, docstore.LegacyProgressCollection(accountID))
	if err != nil {
		return res, fmt.Errorf("migration.Migrate: list legacy: %w", err)
	}

	profile, found, err := s.loadProfile(ctx, accountID)
	if err != nil {
		return res, fmt.Errorf("migration.Migrate: %w", err)
	}

	if len(legacyDocs) == 0 && found && profile.SchemaVersion >= domain.CurrentSchemaVersion {
		res.Skipped = true
		return res, nil
	}

	now := s.now()
	merged := make(map[string]domain.CardSetProgress)
	var writes []docstore.Write

	for _, doc := range legacyDocs {
		legacy, err := s.decodeLegacy(doc)
		if err != nil {
			s.log.WarnContext(ctx, "malformed legacy progress quarantined",
				slog.String("account_id", accountID),
				slog.String("path", doc.Path),
				slog.String("error", err.Error()),
			)
			res.Errors = append(res.Errors, SetError{CardSetID: doc.ID(), Message: err.Error()})
			record, qerr := quarantineRecord(doc, err, now)
			if qerr != nil {
				return res, fmt.Errorf("migration.Migrate: %w", qerr)
			}
			writes = append(writes,
				docstore.SetWrite(docstore.QuarantinePath(accountID, doc.ID()), record, false),
				docstore.DeleteWrite(doc.Path),
			)
			continue
		}

		incoming := legacy.ToProgress(now)
		if existing, ok := profile.CardSetsProgress[legacy.CardSetID]; ok && !incoming.UpdatedAt.After(existing.UpdatedAt) {
			s.log.DebugContext(ctx, "legacy progress older than consolidated entry",
				slog.String("account_id", accountID),
				slog.String("card_set_id", legacy.CardSetID),
			)
		} else {
			if incoming.UpdatedAt.IsZero() {
				incoming.UpdatedAt = now
			}
			merged[legacy.CardSetID] = incoming
		}

		res.MigratedSets = append(res.MigratedSets, legacy.CardSetID)
		writes = append(writes, docstore.DeleteWrite(doc.Path))
	}

	patch, err := profilePatch(accountID, profile, found, merged, now)
	if err != nil {
		return res, fmt.Errorf("migration.Migrate: %w", err)
	}
	writes = append([]docstore.Write{docstore.SetWrite(docstore.ProfilePath(accountID), patch, true)}, writes...)

	if err := s.store.BatchWrite(ctx, writes); err != nil {
		return res, fmt.Errorf("migration.Migrate: batch write: %w", err)
	}
	res.Operations = len(writes)

	s.log.InfoContext(ctx, "account migrated",
		slog.String("account_id", accountID),
		slog.Int("migrated_sets", len(res.MigratedSets)),
		slog.Int("errors", len(res.Errors)),
		slog.Int("operations", res.Operations),
	)
	return res, nil
}

// AutoMigrateAndLoad migrates the account when needed and then runs load.
// A failed migration is logged and leaves the legacy documents in place for
// the next attempt; load still runs so the account stays usable.
func (s *Service) AutoMigrateAndLoad(ctx context.Context, accountID string, load func(context.Context) error) (Result, error) {
	res := Result{AccountID: accountID, Skipped: true}

	needs, err := s.NeedsMigration(ctx, accountID)
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "migration check failed",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()),
		)
	case needs:
		res, err = s.Migrate(ctx, accountID)
		if err != nil {
			s.log.WarnContext(ctx, "migration failed, loading unmigrated account",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := load(ctx); err != nil {
		return res, fmt.Errorf("migration.AutoMigrateAndLoad: load: %w", err)
	}
	return res, nil
}

func (s *Service) loadProfile(ctx context.Context, accountID string) (domain.Profile, bool, error) {
	doc, err := s.store.Get(ctx, docstore.ProfilePath(accountID))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return domain.Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

// requiredLegacyFields must be present in a legacy document; a zero value
// decoded from a missing key would read as real progress.
var requiredLegacyFields = []string{"totalCards", "reviewedCards"}

func (s *Service) decodeLegacy(doc docstore.Document) (domain.LegacyProgress, error) {
	var lp domain.LegacyProgress
	if err := json.Unmarshal(doc.Data, &lp); err != nil {
		return lp, fmt.Errorf("decode: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		return lp, fmt.Errorf("decode: %w", err)
	}
	for _, name := range requiredLegacyFields {
		if raw, ok := fields[name]; !ok || string(raw) == "null" {
			return lp, fmt.Errorf("missing required field %s", name)
		}
	}
	if lp.CardSetID == "" {
		lp.CardSetID = doc.ID()
	}
	if lp.CardSetID != doc.ID() {
		return lp, fmt.Errorf("cardSetId %q does not match document id", lp.CardSetID)
	}
	if err := s.validate.Struct(lp); err != nil {
		return lp, err
	}
	if lp.MasteredCards+lp.NeedPracticeCards != lp.ReviewedCards {
		return lp, fmt.Errorf("masteredCards + needPracticeCards != reviewedCards")
	}
	return lp, nil
}

func profilePatch(accountID string, current domain.Profile, found bool, merged map[string]domain.CardSetProgress, now time.Time) (json.RawMessage, error) {
	patch := map[string]any{
		"accountId":        accountID,
		"schemaVersion":    domain.CurrentSchemaVersion,
		"cardSetsProgress": merged,
		"updatedAt":        now,
	}
	if !found || current.CreatedAt.IsZero() {
		patch["createdAt"] = now
	}

	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode profile patch: %w", err)
	}
	return data, nil
}

// quarantineRecord keeps the legacy payload verbatim under "raw" when it is
// valid JSON. Anything else is stored base64-encoded so no bytes are lost.
func quarantineRecord(doc docstore.Document, cause error, now time.Time) (json.RawMessage, error) {
	record := map[string]any{
		"path":          doc.Path,
		"reason":        cause.Error(),
		"quarantinedAt": now,
	}
	if json.Valid(doc.Data) {
		record["raw"] = json.RawMessage(doc.Data)
	} else {
		record["rawBytes"] = []byte(doc.Data)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode quarantine record %s: %w", doc.Path, err)
	}
	return data, nil
}
