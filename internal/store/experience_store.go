package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serenlabs/lucid/internal/domain"
)

// ExperienceStore persists journaled experiences and their ingestions.
type ExperienceStore struct {
	db *DB
}

// NewExperienceStore creates an experience store using the given database.
func NewExperienceStore(db *DB) *ExperienceStore {
	return &ExperienceStore{db: db}
}

// Insert stores an experience and its ingestions. A blank ID is assigned one.
func (s *ExperienceStore) Insert(exp *domain.Experience) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}

	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}

	var endedAt sql.NullString
	if exp.EndedAt != nil {
		endedAt = sql.NullString{String: exp.EndedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	if _, err := tx.Exec(
		`INSERT INTO experiences (id, title, started_at, ended_at, location, notes, rating)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.Title, exp.StartedAt.UTC().Format(time.RFC3339), endedAt,
		exp.Location, exp.Notes, exp.Rating,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting experience: %w", err)
	}

	for _, ing := range exp.Ingestions {
		if _, err := tx.Exec(
			`INSERT INTO ingestions (experience_id, substance_name, dose, unit, route, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			exp.ID, ing.SubstanceName, ing.Dose, ing.Unit, ing.Route,
			ing.Timestamp.UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting ingestion: %w", err)
		}
	}

	return tx.Commit()
}

// Get returns an experience by ID, or nil if not found.
func (s *ExperienceStore) Get(id string) (*domain.Experience, error) {
	row := s.db.sql.QueryRow(
		`SELECT id, title, started_at, ended_at, location, notes, rating
		 FROM experiences WHERE id = ?`, id,
	)
	exp, err := scanExperience(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	exp.Ingestions, err = s.loadIngestions(exp.ID)
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// List returns experiences ordered by start time, oldest first, optionally
// bounded to those started at or after since (zero time means no bound).
func (s *ExperienceStore) List(since time.Time) ([]domain.Experience, error) {
	query := `SELECT id, title, started_at, ended_at, location, notes, rating
	          FROM experiences`
	args := []any{}
	if !since.IsZero() {
		query += ` WHERE started_at >= ?`
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at`

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing experiences: %w", err)
	}
	defer rows.Close()

	var exps []domain.Experience
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		exps = append(exps, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range exps {
		exps[i].Ingestions, err = s.loadIngestions(exps[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return exps, nil
}

// Delete removes an experience and its ingestions. Unknown IDs are a no-op.
func (s *ExperienceStore) Delete(id string) error {
	_, err := s.db.sql.Exec(`DELETE FROM experiences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting experience: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExperience(sc scanner) (*domain.Experience, error) {
	var exp domain.Experience
	var startedAt string
	var endedAt sql.NullString

	if err := sc.Scan(&exp.ID, &exp.Title, &startedAt, &endedAt,
		&exp.Location, &exp.Notes, &exp.Rating); err != nil {
		return nil, err
	}

	exp.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		if t, err := time.Parse(time.RFC3339, endedAt.String); err == nil {
			exp.EndedAt = &t
		}
	}
	return &exp, nil
}

func (s *ExperienceStore) loadIngestions(experienceID string) ([]domain.Ingestion, error) {
	rows, err := s.db.sql.Query(
		`SELECT substance_name, dose, unit, route, timestamp
		 FROM ingestions WHERE experience_id = ? ORDER BY id`, experienceID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading ingestions: %w", err)
	}
	defer rows.Close()

	var ings []domain.Ingestion
	for rows.Next() {
		var ing domain.Ingestion
		var ts string
		if err := rows.Scan(&ing.SubstanceName, &ing.Dose, &ing.Unit, &ing.Route, &ts); err != nil {
			return nil, err
		}
		ing.Timestamp, _ = time.Parse(time.RFC3339, ts)
		ings = append(ings, ing)
	}
	return ings, rows.Err()
}
