package repository

import (
	"context"
	"errors"
)

// ErrDuplicateURL is returned by InsertOne when the store already holds a
// recipe with the same url. The unique index on url is the source of truth.
var ErrDuplicateURL = errors.New("repository: duplicate recipe url")

type RecipeRepository interface {
	Exists(ctx context.Context, url string) (bool, error)
	InsertOne(ctx context.Context, recipe *Recipe) error
}

// Recipe is the persisted unit. It is written exactly once, on first
// encounter of its url, and never updated afterwards.
type Recipe struct {
	Title          string            `bson:"title"`
	URL            string            `bson:"url"`
	Description    string            `bson:"description"`
	Ingredients    []IngredientGroup `bson:"ingredients"`
	Instructions   string            `bson:"instructions"`
	RelatedRecipes []RelatedLink     `bson:"related_recipes"`
	ScrapedAt      string            `bson:"scraped_at"`
	Category       string            `bson:"category"`
	PrepTime       string            `bson:"prep_time"`
	Calories       string            `bson:"calories"`
	Difficulty     string            `bson:"difficulty"`
}

// IngredientGroup keeps one labelled section of the ingredient list,
// e.g. "Per la pasta frolla". Items preserve document order.
type IngredientGroup struct {
	Group string       `bson:"group"`
	Items []Ingredient `bson:"items"`
}

type Ingredient struct {
	Item     string `bson:"item"`
	Quantity string `bson:"quantity"`
}

type RelatedLink struct {
	Name string `bson:"name"`
	URL  string `bson:"url"`
}
