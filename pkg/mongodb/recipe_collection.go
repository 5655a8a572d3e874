package mongodb

import (
	"context"
	"errors"
	"fmt"

	"ricette/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecipeCollection struct {
	col *mongo.Collection
}

// NewRecipeCollection opens the recipe collection and ensures the unique
// index on url exists before the first crawl touches the store.
func NewRecipeCollection(ctx context.Context, db *mongo.Database, name string) (*RecipeCollection, error) {
	col := db.Collection(name)
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := col.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("recipecol: create url index: %w", err)
	}
	return &RecipeCollection{col: col}, nil
}

func (c *RecipeCollection) Exists(ctx context.Context, url string) (bool, error) {
	filter := bson.M{"url": url}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := c.col.FindOne(ctx, filter, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("recipecol: %w", err)
	}
	return true, nil
}

func (c *RecipeCollection) InsertOne(ctx context.Context, recipe *repository.Recipe) error {
	_, err := c.col.InsertOne(ctx, recipe)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("recipecol: %s: %w", recipe.URL, repository.ErrDuplicateURL)
	}
	if err != nil {
		return fmt.Errorf("recipecol: %w", err)
	}
	return nil
}

var _ repository.RecipeRepository = (*RecipeCollection)(nil)
