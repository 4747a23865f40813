package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const backendMongo = "MongoDB"

// ConnectDB opens a MongoDB client, pings the primary and returns the listings database.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", backendMongo, err)
	}

	err = verifyConnection(backendMongo,
		func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		func() error { return client.Disconnect(context.Background()) },
	)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return closeConnection(backendMongo, func() error { return client.Disconnect(ctx) })
}
