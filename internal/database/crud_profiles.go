// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/christiankenc/letspopin-matching/internal/embedding"
	"github.com/christiankenc/letspopin-matching/internal/metrics"
	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

const profileColumns = `id, name, headline, about,
	title_tags, company_tags, looking_tags, offering_tags,
	education, experience, offering_vec, looking_vec`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p                                 models.Profile
		title, company, looking, offering sql.NullString
		education, experience             sql.NullString
		offeringVec, lookingVec           sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Headline, &p.About,
		&title, &company, &looking, &offering,
		&education, &experience, &offeringVec, &lookingVec)
	if err != nil {
		return nil, err
	}

	p.Tags = tags.TagSet{
		Title:      tags.ParseList([]byte(title.String)),
		Company:    tags.ParseList([]byte(company.String)),
		LookingFor: tags.ParseList([]byte(looking.String)),
		Offering:   tags.ParseList([]byte(offering.String)),
	}
	p.Education = decodeEntries[models.Education](education)
	p.Experience = decodeEntries[models.Experience](experience)
	p.OfferingVec = embedding.ParseVector([]byte(offeringVec.String))
	p.LookingVec = embedding.ParseVector([]byte(lookingVec.String))
	return &p, nil
}

// decodeEntries decodes a JSON array column, returning nil when the
// column is NULL or malformed.
func decodeEntries[T any](col sql.NullString) []T {
	if !col.Valid || col.String == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil
	}
	return out
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeVector(v []float64) (string, error) {
	data, err := embedding.EncodeVector(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// encodeTags renders the four slots as JSON array columns.
func encodeTags(t tags.TagSet) ([4]string, error) {
	var cols [4]string
	for i, slot := range [][]string{t.Title, t.Company, t.LookingFor, t.Offering} {
		if slot == nil {
			slot = []string{}
		}
		s, err := encodeJSON(slot)
		if err != nil {
			return cols, fmt.Errorf("marshal tags: %w", err)
		}
		cols[i] = s
	}
	return cols, nil
}

// GetProfile retrieves a profile by id.
func (db *DB) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	start := time.Now()
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ? LIMIT 1`

	p, err := scanProfile(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordStoreQuery("get_profile", driverName, time.Since(start), nil)
		return nil, recommend.ErrProfileNotFound
	}
	metrics.RecordStoreQuery("get_profile", driverName, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListOtherProfiles returns every profile except excludeID, ordered by id.
func (db *DB) ListOtherProfiles(ctx context.Context, excludeID string) ([]*models.Profile, error) {
	start := time.Now()
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id <> ? ORDER BY id`

	profiles, err := db.queryProfiles(ctx, query, excludeID)
	metrics.RecordStoreQuery("list_profiles", driverName, time.Since(start), err)
	return profiles, err
}

// ListProfiles returns every profile, ordered by id.
func (db *DB) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	start := time.Now()
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY id`

	profiles, err := db.queryProfiles(ctx, query)
	metrics.RecordStoreQuery("list_profiles", driverName, time.Since(start), err)
	return profiles, err
}

func (db *DB) queryProfiles(ctx context.Context, query string, args ...any) ([]*models.Profile, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

// UpdateTags replaces the tag columns of a profile and clears its vectors
// so they are recomputed from the new tags.
func (db *DB) UpdateTags(ctx context.Context, id string, t tags.TagSet) error {
	cols, err := encodeTags(t.Normalized())
	if err != nil {
		return err
	}
	query := `UPDATE profiles SET
		title_tags = ?, company_tags = ?, looking_tags = ?, offering_tags = ?,
		offering_vec = '[]', looking_vec = '[]', updated_at = ?
	WHERE id = ?`

	return db.execUpdate(ctx, "update_tags", query, cols[0], cols[1], cols[2], cols[3], time.Now(), id)
}

// UpdateVectors replaces both vectors of a profile in one statement.
func (db *DB) UpdateVectors(ctx context.Context, id string, offering, looking []float64) error {
	off, err := encodeVector(offering)
	if err != nil {
		return fmt.Errorf("marshal offering vector: %w", err)
	}
	look, err := encodeVector(looking)
	if err != nil {
		return fmt.Errorf("marshal looking vector: %w", err)
	}
	query := `UPDATE profiles SET offering_vec = ?, looking_vec = ?, updated_at = ? WHERE id = ?`

	return db.execUpdate(ctx, "update_vectors", query, off, look, time.Now(), id)
}

func (db *DB) execUpdate(ctx context.Context, op, query string, args ...any) error {
	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreQuery(op, driverName, time.Since(start), err)
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	metrics.RecordStoreQuery(op, driverName, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return recommend.ErrProfileNotFound
	}
	return nil
}

// PutProfile inserts or replaces a whole profile.
func (db *DB) PutProfile(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	tagCols, err := encodeTags(p.Tags.Normalized())
	if err != nil {
		return err
	}
	education, err := encodeJSON(p.Education)
	if err != nil {
		return fmt.Errorf("marshal education: %w", err)
	}
	experience, err := encodeJSON(p.Experience)
	if err != nil {
		return fmt.Errorf("marshal experience: %w", err)
	}
	off, err := encodeVector(p.OfferingVec)
	if err != nil {
		return fmt.Errorf("marshal offering vector: %w", err)
	}
	look, err := encodeVector(p.LookingVec)
	if err != nil {
		return fmt.Errorf("marshal looking vector: %w", err)
	}

	query := `INSERT INTO profiles (` + profileColumns + `, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		headline = EXCLUDED.headline,
		about = EXCLUDED.about,
		title_tags = EXCLUDED.title_tags,
		company_tags = EXCLUDED.company_tags,
		looking_tags = EXCLUDED.looking_tags,
		offering_tags = EXCLUDED.offering_tags,
		education = EXCLUDED.education,
		experience = EXCLUDED.experience,
		offering_vec = EXCLUDED.offering_vec,
		looking_vec = EXCLUDED.looking_vec,
		updated_at = EXCLUDED.updated_at`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query,
		p.ID, p.Name, p.Headline, p.About,
		tagCols[0], tagCols[1], tagCols[2], tagCols[3],
		education, experience, off, look, time.Now(),
	)
	metrics.RecordStoreQuery("put_profile", driverName, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// Ensure DB implements the interface.
var _ recommend.ProfileStore = (*DB)(nil)
