package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookingapi/internal/config"
)

func TestMongoOptions(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		opts, err := MongoOptions(config.MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "booking",
			ConnectTTL: 3 * time.Second,
		})
		require.NoError(t, err)
		require.NotNil(t, opts.ConnectTimeout)
		assert.Equal(t, 3*time.Second, *opts.ConnectTimeout)
	})

	t.Run("default timeout", func(t *testing.T) {
		opts, err := MongoOptions(config.MongoConfig{URI: "mongodb://localhost:27017", Database: "booking"})
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, *opts.ServerSelectionTimeout)
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := MongoOptions(config.MongoConfig{URI: "mongodb://localhost:27017"})
		assert.Error(t, err)
	})

	t.Run("bad uri", func(t *testing.T) {
		_, err := MongoOptions(config.MongoConfig{URI: "not-a-uri", Database: "booking"})
		assert.Error(t, err)
	})
}

func TestNewMongo_ConnectError(t *testing.T) {
	orig := mongoConnect
	mongoConnect = func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error) {
		return nil, errors.New("dial refused")
	}
	defer func() { mongoConnect = orig }()

	client, db, err := NewMongo(context.Background(), config.MongoConfig{
		URI:      "mongodb://localhost:27017",
		Database: "booking",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mongo connect: dial refused")
	assert.Nil(t, client)
	assert.Nil(t, db)
}
