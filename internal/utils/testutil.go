package utils

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	loadTestEnv()
}

// loadTestEnv loads the .env file from the project root when present.
func loadTestEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil {
		godotenv.Load()
	}
}

// SetupTestDB creates a test MongoDB database connection and returns the database instance.
// It drops the given collections for a clean state and skips the test when MONGO_URI is unset.
func SetupTestDB(t *testing.T, dbName string, collections ...string) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping MongoDB-backed test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "Failed to connect to MongoDB")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(dbName)
	for _, collection := range collections {
		_ = db.Collection(collection).Drop(context.Background())
	}

	return db
}

// SetupTestPostgres connects to POSTGRES_DSN and drops the given tables.
// The test is skipped when POSTGRES_DSN is unset.
func SetupTestPostgres(t *testing.T, tables ...string) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set; skipping Postgres-backed test")
	}

	pg, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to Postgres")
	t.Cleanup(func() { _ = pg.Close() })

	for _, table := range tables {
		_, err := pg.Exec("DROP TABLE IF EXISTS " + table)
		require.NoError(t, err)
	}
	return pg
}

// SetupTestRedis connects to REDIS_ADDR and flushes the selected database.
// The test is skipped when REDIS_ADDR is unset.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis-backed test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err(), "Failed to connect to Redis")
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return rdb
}
