package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, owner_id, title, time_minutes, price, link, image_path,
	created_at, updated_at`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
// TagIDs and IngredientIDs are left nil; the caller loads them separately.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		imagePath sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Title,
		&r.TimeMinutes,
		&r.Price,
		&r.Link,
		&imagePath,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if imagePath.Valid {
		r.ImagePath = imagePath.String
	}

	return &r, nil
}

// CreateRecipe inserts a recipe and its tag and ingredient associations in
// a single transaction. The recipe's auto-incremented ID is assigned on success.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (owner_id, title, time_minutes, price, link, image_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OwnerID,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Link,
		nullString(r.ImagePath),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("recipe last insert id: %w", err)
	}

	if err := insertRecipeRefs(ctx, tx, id, r.TagIDs, r.IngredientIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.ID = id
	return nil
}

// insertRecipeRefs inserts recipe_tags and recipe_ingredients rows for a recipe.
func insertRecipeRefs(ctx context.Context, tx *sql.Tx, recipeID int64, tagIDs, ingredientIDs []int64) error {
	now := formatTime(time.Now().UTC())

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_tags (recipe_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID, tagID, now)
		if err != nil {
			return fmt.Errorf("insert recipe_tag: %w", err)
		}
	}

	for _, ingredientID := range ingredientIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID, ingredientID, now)
		if err != nil {
			return fmt.Errorf("insert recipe_ingredient: %w", err)
		}
	}

	return nil
}

// loadRecipeRefs populates a recipe's TagIDs and IngredientIDs.
func (s *Store) loadRecipeRefs(ctx context.Context, r *domain.Recipe) error {
	tagIDs, err := s.queryIDs(ctx,
		`SELECT tag_id FROM recipe_tags WHERE recipe_id = ? ORDER BY tag_id ASC`, r.ID)
	if err != nil {
		return fmt.Errorf("query recipe_tags: %w", err)
	}
	r.TagIDs = tagIDs

	ingredientIDs, err := s.queryIDs(ctx,
		`SELECT ingredient_id FROM recipe_ingredients WHERE recipe_id = ? ORDER BY ingredient_id ASC`, r.ID)
	if err != nil {
		return fmt.Errorf("query recipe_ingredients: %w", err)
	}
	r.IngredientIDs = ingredientIDs

	return nil
}

// queryIDs runs a single-column int64 query and collects the results.
// Returns an empty (non-nil) slice when there are no rows.
func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetRecipe retrieves a recipe by ID, scoped to its owner, with tag and
// ingredient ID sets loaded.
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) GetRecipe(ctx context.Context, ownerID string, id int64) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND owner_id = ?`, id, ownerID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRecipeRefs(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns a user's recipes ordered by ID ascending, with tag and
// ingredient ID sets loaded. Each filter set matches recipes carrying at
// least one of its IDs; the tag and ingredient sets compose with AND.
func (s *Store) ListRecipes(ctx context.Context, ownerID string, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + recipeColumns + ` FROM recipes r WHERE owner_id = ?`)
	args := []any{ownerID}

	if len(filter.TagIDs) > 0 {
		placeholders, tagArgs := idPlaceholders(filter.TagIDs)
		sb.WriteString(` AND EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag_id IN (` + placeholders + `))`)
		args = append(args, tagArgs...)
	}
	if len(filter.IngredientIDs) > 0 {
		placeholders, ingredientArgs := idPlaceholders(filter.IngredientIDs)
		sb.WriteString(` AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = r.id AND ri.ingredient_id IN (` + placeholders + `))`)
		args = append(args, ingredientArgs...)
	}

	sb.WriteString(` ORDER BY id ASC`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range recipes {
		if err := s.loadRecipeRefs(ctx, r); err != nil {
			return nil, err
		}
	}

	return recipes, nil
}

// UpdateRecipe performs a full row update and replaces the tag and ingredient
// associations in a single transaction (delete-then-insert).
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			title = ?,
			time_minutes = ?,
			price = ?,
			link = ?,
			image_path = ?,
			created_at = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Link,
		nullString(r.ImagePath),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
		r.ID,
		r.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	// Replace associations.
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}
	if err := insertRecipeRefs(ctx, tx, r.ID, r.TagIDs, r.IngredientIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteRecipe performs a hard delete of a recipe, scoped to its owner.
// Join rows are removed by FK cascade.
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) DeleteRecipe(ctx context.Context, ownerID string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND owner_id = ?`, id, ownerID)
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

// SetRecipeImagePath updates only the image path and updated_at of a recipe.
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) SetRecipeImagePath(ctx context.Context, ownerID string, id int64, imagePath string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET image_path = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		nullString(imagePath),
		formatTime(time.Now()),
		id,
		ownerID,
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
