package docstore

import "path"

const accountsCollection = "accounts"

// ProfilePath is the account profile document.
func ProfilePath(accountID string) string {
	return path.Join(accountsCollection, accountID)
}

// CardSetCollection holds one document per card set with its card list.
func CardSetCollection(accountID string) string {
	return path.Join(accountsCollection, accountID, "cardSets")
}

// CardSetPath is the card collection document of one card set.
func CardSetPath(accountID, cardSetID string) string {
	return path.Join(CardSetCollection(accountID), cardSetID)
}

// LegacyProgressCollection holds the pre-consolidation per-set progress documents.
func LegacyProgressCollection(accountID string) string {
	return path.Join(accountsCollection, accountID, "cardSetProgress")
}

// LegacyProgressPath is a single legacy progress document.
func LegacyProgressPath(accountID, cardSetID string) string {
	return path.Join(LegacyProgressCollection(accountID), cardSetID)
}

// QuarantinePath keeps a legacy document that failed validation during migration.
func QuarantinePath(accountID, cardSetID string) string {
	return path.Join(accountsCollection, accountID, "migrationQuarantine", cardSetID)
}
