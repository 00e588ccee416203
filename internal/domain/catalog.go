package domain

import "time"

// Tag is a user-owned label for categorizing recipes.
// Tags belong exclusively to the user who created them; duplicate names
// for the same owner are allowed.
type Tag struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"` // Owning user, never serialized
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// InitTimestamps sets CreatedAt and UpdatedAt for a new tag.
func (t *Tag) InitTimestamps() {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Ingredient is a user-owned ingredient entry, shaped like Tag.
type Ingredient struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (i *Ingredient) Touch() {
	i.UpdatedAt = time.Now()
}

// InitTimestamps sets CreatedAt and UpdatedAt for a new ingredient.
func (i *Ingredient) InitTimestamps() {
	now := time.Now()
	i.CreatedAt = now
	i.UpdatedAt = now
}

// Recipe is the central catalog entity. Tags and ingredients are attached
// as ID sets; referenced entries must belong to the same owner.
type Recipe struct {
	ID            int64     `json:"id"`
	OwnerID       string    `json:"-"`
	Title         string    `json:"title"`
	TimeMinutes   int       `json:"time_minutes"`
	Price         float64   `json:"price"`
	Link          string    `json:"link,omitempty"`
	ImagePath     string    `json:"image,omitempty"` // Serving path, empty when no image uploaded
	TagIDs        []int64   `json:"tags"`
	IngredientIDs []int64   `json:"ingredients"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now()
}

// InitTimestamps sets CreatedAt and UpdatedAt for a new recipe.
func (r *Recipe) InitTimestamps() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
}

// HasImage reports whether an image has been uploaded for this recipe.
func (r *Recipe) HasImage() bool {
	return r.ImagePath != ""
}
