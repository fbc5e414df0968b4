package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/serenlabs/lucid/internal/domain"
)

// SubstanceStore persists the known-substance catalog.
type SubstanceStore struct {
	db *DB
}

// NewSubstanceStore creates a substance store using the given database.
func NewSubstanceStore(db *DB) *SubstanceStore {
	return &SubstanceStore{db: db}
}

// Upsert inserts or replaces a substance entry keyed by name.
func (s *SubstanceStore) Upsert(sub domain.Substance) error {
	var commonNames sql.NullString
	if len(sub.CommonNames) > 0 {
		data, err := json.Marshal(sub.CommonNames)
		if err != nil {
			return fmt.Errorf("encoding common names: %w", err)
		}
		commonNames = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO substances (name, class, common_names) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET class = excluded.class, common_names = excluded.common_names`,
		sub.Name, sub.Class, commonNames,
	)
	if err != nil {
		return fmt.Errorf("upserting substance %q: %w", sub.Name, err)
	}
	return nil
}

// Catalog loads all substances into a lookup catalog.
func (s *SubstanceStore) Catalog() (*domain.Catalog, error) {
	rows, err := s.db.sql.Query(`SELECT name, class, common_names FROM substances ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("loading substances: %w", err)
	}
	defer rows.Close()

	var subs []domain.Substance
	for rows.Next() {
		var sub domain.Substance
		var commonNames sql.NullString
		if err := rows.Scan(&sub.Name, &sub.Class, &commonNames); err != nil {
			return nil, err
		}
		if commonNames.Valid && commonNames.String != "" {
			if err := json.Unmarshal([]byte(commonNames.String), &sub.CommonNames); err != nil {
				s.db.log.Warn().Err(err).Str("substance", sub.Name).Msg("invalid common names payload")
			}
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewCatalog(subs), nil
}
