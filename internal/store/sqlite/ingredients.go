package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/store"
)

// ingredientColumns is the ordered list of columns selected in ingredient queries.
// Must match the scan order in scanIngredient.
const ingredientColumns = `id, owner_id, name, created_at, updated_at`

// scanIngredient scans a sql.Row (or sql.Rows via its Scan method) into a domain.Ingredient.
func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var ing domain.Ingredient

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&ing.ID,
		&ing.OwnerID,
		&ing.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ing.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	ing.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &ing, nil
}

// CreateIngredient inserts a new ingredient and assigns its auto-incremented ID.
func (s *Store) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		ing.OwnerID,
		ing.Name,
		formatTime(ing.CreatedAt),
		formatTime(ing.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}

	ing.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ingredient last insert id: %w", err)
	}
	return nil
}

// GetIngredient retrieves an ingredient by ID, scoped to its owner.
// Returns store.ErrNotFound if the ingredient does not exist or belongs to another user.
func (s *Store) GetIngredient(ctx context.Context, ownerID string, id int64) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ? AND owner_id = ?`, id, ownerID)

	ing, err := scanIngredient(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// GetIngredientsByIDs returns the owner's ingredients matching the given IDs.
// IDs that do not exist (or belong to another user) are silently omitted;
// callers compare lengths to detect dangling references.
func (s *Store) GetIngredientsByIDs(ctx context.Context, ownerID string, ids []int64) ([]*domain.Ingredient, error) {
	if len(ids) == 0 {
		return []*domain.Ingredient{}, nil
	}

	placeholders, args := idPlaceholders(ids)
	args = append(args, ownerID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id IN (`+placeholders+`) AND owner_id = ?`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []*domain.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ingredients == nil {
		ingredients = []*domain.Ingredient{}
	}
	return ingredients, nil
}

// ListIngredients returns all ingredients for a user ordered by name descending.
func (s *Store) ListIngredients(ctx context.Context, ownerID string) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE owner_id = ? ORDER BY name DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []*domain.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ingredients == nil {
		ingredients = []*domain.Ingredient{}
	}
	return ingredients, nil
}

// UpdateIngredient performs a full row update on an existing ingredient, scoped to its owner.
// Returns store.ErrNotFound if the ingredient does not exist or belongs to another user.
func (s *Store) UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ingredients SET
			name = ?,
			created_at = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		ing.Name,
		formatTime(ing.CreatedAt),
		formatTime(ing.UpdatedAt),
		ing.ID,
		ing.OwnerID,
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

// DeleteIngredient performs a hard delete of an ingredient, scoped to its owner.
// Join rows referencing the ingredient are removed by FK cascade.
// Returns store.ErrNotFound if the ingredient does not exist or belongs to another user.
func (s *Store) DeleteIngredient(ctx context.Context, ownerID string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = ? AND owner_id = ?`, id, ownerID)
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
