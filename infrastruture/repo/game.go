package repo

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepo handles the persistence of saved games.
type GameRepo struct {
	collection *mongo.Collection
}

// NewGameRepo creates a new GameRepo with the given MongoDB client, database name, and collection name.
func NewGameRepo(client *mongo.Client, dbName, collectionName string) *GameRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &GameRepo{
		collection: collection,
	}
}

// Save inserts or updates a saved game.
func (g *GameRepo) Save(ctx context.Context, game *dmn.SavedGame) error {
	filter := bson.M{"_id": game.ID}
	update := bson.M{
		"$set": bson.M{
			"data":    game.Data,
			"preset":  game.Preset,
			"player":  game.Player,
			"savedAt": game.SavedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := g.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// ByID retrieves a saved game by its ID.
// Returns dmn.ErrSavedGameNotFound if it does not exist.
func (g *GameRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.SavedGame, error) {
	filter := bson.M{"_id": id}
	var game dmn.SavedGame
	if err := g.collection.FindOne(ctx, filter).Decode(&game); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrSavedGameNotFound
		}
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return &game, nil
}
