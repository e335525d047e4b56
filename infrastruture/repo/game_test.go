package repo

import (
	"context"
	"os"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestGameRepo runs against a live server named by MONGO_URI.
func TestGameRepo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := "mines_test_" + uuid.NewString()[:8]
	t.Cleanup(func() { _ = client.Database(db).Drop(context.Background()) })
	r := NewGameRepo(client, db, "games")

	game := &dmn.SavedGame{
		ID:      uuid.New(),
		Data:    "FX Minesweeper Save Game\n",
		Preset:  "small",
		Player:  "ada",
		SavedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, r.Save(ctx, game))

	got, err := r.ByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game, got)

	game.Player = "bob"
	require.NoError(t, r.Save(ctx, game))
	got, err = r.ByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Player)

	_, err = r.ByID(ctx, uuid.New())
	assert.ErrorIs(t, err, dmn.ErrSavedGameNotFound)
}
