package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, owner_id, name, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// idPlaceholders returns a "?, ?, ..." fragment and the matching args slice
// for an IN clause over int64 IDs.
func idPlaceholders(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

// CreateTag inserts a new tag and assigns its auto-incremented ID.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		t.OwnerID,
		t.Name,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}

	t.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("tag last insert id: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by ID, scoped to its owner.
// Returns store.ErrNotFound if the tag does not exist or belongs to another user.
func (s *Store) GetTag(ctx context.Context, ownerID string, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagsByIDs returns the owner's tags matching the given IDs.
// IDs that do not exist (or belong to another user) are silently omitted;
// callers compare lengths to detect dangling references.
func (s *Store) GetTagsByIDs(ctx context.Context, ownerID string, ids []int64) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	placeholders, args := idPlaceholders(ids)
	args = append(args, ownerID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id IN (`+placeholders+`) AND owner_id = ?`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// ListTags returns all tags for a user ordered by name descending.
func (s *Store) ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? ORDER BY name DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// UpdateTag performs a full row update on an existing tag, scoped to its owner.
// Returns store.ErrNotFound if the tag does not exist or belongs to another user.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET
			name = ?,
			created_at = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		t.Name,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
		t.ID,
		t.OwnerID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteTag performs a hard delete of a tag, scoped to its owner.
// Join rows referencing the tag are removed by FK cascade.
// Returns store.ErrNotFound if the tag does not exist or belongs to another user.
func (s *Store) DeleteTag(ctx context.Context, ownerID string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
