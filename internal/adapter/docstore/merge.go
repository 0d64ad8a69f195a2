package docstore

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

var emptyObject = json.RawMessage(`{}`)

// MergePatch applies patch onto target as an RFC 7396 JSON merge patch.
// An empty target is treated as an empty object.
func MergePatch(target, patch json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(patch) {
		return nil, fmt.Errorf("decode patch: %w", domain.ErrValidation)
	}
	if len(target) == 0 {
		target = emptyObject
	}

	out, err := jsonpatch.MergePatch(target, patch)
	if err != nil {
		return nil, fmt.Errorf("apply merge patch: %w", err)
	}
	return out, nil
}

// ValidateObject reports whether data is a JSON object. Stores only accept
// objects as documents.
func ValidateObject(data json.RawMessage) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return fmt.Errorf("document must be a JSON object: %w", domain.ErrValidation)
	}
	return nil
}
