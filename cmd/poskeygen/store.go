package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense/ledger"
)

// connectLedger is swapped in tests.
var connectLedger = openLedger

// openLedger connects to the configured ledger backend. It returns a nil
// ledger when none is configured. The returned func closes the connection.
func openLedger(ctx context.Context, cfg *Config) (ledger.Ledger, func(), error) {
	switch cfg.Ledger {
	case "":
		return nil, func() {}, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("POSKEYGEN_POSTGRES_DSN is required for the postgres ledger")
		}
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		l, err := ledger.NewPostgresLedger(ctx, pool, ledger.WithTableName(cfg.LedgerTable))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return l, pool.Close, nil

	case "mongo":
		if cfg.MongoURI == "" {
			return nil, nil, fmt.Errorf("POSKEYGEN_MONGO_URI is required for the mongo ledger")
		}
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		l, err := ledger.NewMongoLedger(ctx, client.Database(cfg.MongoDatabase), ledger.WithCollectionName(cfg.LedgerTable))
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return l, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger)
}
