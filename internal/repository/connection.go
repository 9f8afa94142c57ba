package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectConfig tunes the shared Mongo client. Both stores (carts and
// orders) hang off the one database handle this produces.
type ConnectConfig struct {
	ConnectTimeout time.Duration
	SelectTimeout  time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

func ConnectMongoDB(ctx context.Context, uri, database string, cfg ConnectConfig) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.SelectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	// Connect does not dial eagerly; ping before handing the pool out so a
	// bad URI fails at startup, not on the first order.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}
