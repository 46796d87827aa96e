package catalog

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_title_store.go -package=mocks screenrag/internal/catalog TitleStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested title does not exist.
var ErrNotFound = errors.New("title not found")

// TitleStore defines the interface for title storage operations.
type TitleStore interface {
	// Upsert inserts or replaces a title record. The title.ID must be set.
	Upsert(ctx context.Context, title *Title) error
	// GetByID gets a title by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Title, error)
	// Count returns the number of stored titles.
	Count(ctx context.Context) (int, error)
}

// TitleRepo provides methods for title operations backed by SQLite.
// It implements the TitleStore interface.
type TitleRepo struct {
	db *sql.DB
}

// NewTitleRepo creates a new TitleRepo.
func NewTitleRepo(db *sql.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

// Upsert inserts or replaces a title record.
func (r *TitleRepo) Upsert(ctx context.Context, title *Title) error {
	if title.ID == "" {
		return fmt.Errorf("title ID must be set")
	}

	keywords, err := encodeList(title.Keywords)
	if err != nil {
		return err
	}
	genres, err := encodeList(title.Genres)
	if err != nil {
		return err
	}
	platforms, err := encodeList(title.Platforms)
	if err != nil {
		return err
	}
	casts, err := encodeList(title.Casts)
	if err != nil {
		return err
	}
	directors, err := encodeList(title.Directors)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO titles
			(id, title, original_title, year, overview, keywords, genres, platforms, casts, directors, hash, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		title.ID, title.Title, title.OriginalTitle, title.Year, title.Overview,
		keywords, genres, platforms, casts, directors, title.Hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert title: %w", err)
	}
	return nil
}

// GetByID gets a title by its ID. Returns ErrNotFound if not found.
func (r *TitleRepo) GetByID(ctx context.Context, id string) (*Title, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, original_title, year, overview, keywords, genres, platforms, casts, directors, hash, updated_at
		 FROM titles WHERE id = ?`, id)

	var t Title
	var keywords, genres, platforms, casts, directors string
	err := row.Scan(&t.ID, &t.Title, &t.OriginalTitle, &t.Year, &t.Overview,
		&keywords, &genres, &platforms, &casts, &directors, &t.Hash, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get title: %w", err)
	}

	if t.Keywords, err = decodeList(keywords); err != nil {
		return nil, err
	}
	if t.Genres, err = decodeList(genres); err != nil {
		return nil, err
	}
	if t.Platforms, err = decodeList(platforms); err != nil {
		return nil, err
	}
	if t.Casts, err = decodeList(casts); err != nil {
		return nil, err
	}
	if t.Directors, err = decodeList(directors); err != nil {
		return nil, err
	}

	return &t, nil
}

// Count returns the number of stored titles.
func (r *TitleRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM titles").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count titles: %w", err)
	}
	return count, nil
}

// encodeList serializes a string list into a JSON text column.
func encodeList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list column: %w", err)
	}
	return string(data), nil
}

// decodeList deserializes a JSON text column into a string list.
// Empty lists decode to nil so zero values round-trip cleanly.
func decodeList(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list column: %w", err)
	}
	return values, nil
}
