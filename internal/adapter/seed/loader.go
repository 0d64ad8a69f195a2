// Package seed loads the static card set definitions that remote card
// collections are created from on first use.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Loader reads card set seeds from a filesystem. Each file is named after
// its card set id. Parsed seeds are cached.
type Loader struct {
	fsys     fs.FS
	validate *validator.Validate

	mu    sync.RWMutex
	cache map[string]domain.CardSetSeed
}

// NewLoader creates a Loader over fsys, typically os.DirFS(cfg.Seed.Dir).
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:     fsys,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cache:    make(map[string]domain.CardSetSeed),
	}
}

// CardSet returns the seed for cardSetID or a wrapped domain.ErrNotFound.
func (l *Loader) CardSet(_ context.Context, cardSetID string) (domain.CardSetSeed, error) {
	if cardSetID == "" || strings.ContainsAny(cardSetID, `/\`) || cardSetID == "." || cardSetID == ".." {
		return domain.CardSetSeed{}, domain.NewValidationError("card_set_id", "invalid card set id")
	}

	l.mu.RLock()
	seed, ok := l.cache[cardSetID]
	l.mu.RUnlock()
	if ok {
		return seed, nil
	}

	for _, ext := range extensions {
		name := cardSetID + ext
		raw, err := fs.ReadFile(l.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.CardSetSeed{}, fmt.Errorf("read seed %s: %w", name, err)
		}

		seed, err := l.parse(name, raw)
		if err != nil {
			return domain.CardSetSeed{}, err
		}

		l.mu.Lock()
		l.cache[cardSetID] = seed
		l.mu.Unlock()
		return seed, nil
	}

	return domain.CardSetSeed{}, fmt.Errorf("seed %s: %w", cardSetID, domain.ErrNotFound)
}

// All loads and validates every seed file, sorted by id.
func (l *Loader) All(ctx context.Context) ([]domain.CardSetSeed, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}

	var seeds []domain.CardSetSeed
	for _, e := range entries {
		ext := path.Ext(e.Name())
		if e.IsDir() || !slices.Contains(extensions, ext) {
			continue
		}
		seed, err := l.CardSet(ctx, strings.TrimSuffix(e.Name(), ext))
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}

	slices.SortFunc(seeds, func(a, b domain.CardSetSeed) int { return strings.Compare(a.ID, b.ID) })
	return seeds, nil
}

func (l *Loader) parse(name string, raw []byte) (domain.CardSetSeed, error) {
	var seed domain.CardSetSeed

	var err error
	if path.Ext(name) == ".json" {
		err = json.Unmarshal(raw, &seed)
	} else {
		err = yaml.Unmarshal(raw, &seed)
	}
	if err != nil {
		return seed, fmt.Errorf("parse seed %s: %w", name, err)
	}

	id := strings.TrimSuffix(name, path.Ext(name))
	if seed.ID == "" {
		seed.ID = id
	}
	if seed.ID != id {
		return seed, domain.NewValidationError("id", fmt.Sprintf("seed %s declares id %q", name, seed.ID))
	}

	if err := l.validate.Struct(seed); err != nil {
		return seed, toValidationError(name, err)
	}

	seen := make(map[string]struct{}, len(seed.Cards))
	for _, c := range seed.Cards {
		if _, dup := seen[c.ID]; dup {
			return seed, domain.NewValidationError("cards", fmt.Sprintf("seed %s: duplicate card id %q", name, c.ID))
		}
		seen[c.ID] = struct{}{}
	}
	return seed, nil
}

func toValidationError(name string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate seed %s: %w", name, err)
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("%s: failed %q", name, fe.Tag()),
		})
	}
	return domain.NewValidationErrors(fields)
}
