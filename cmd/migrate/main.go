// Package main creates the transactions schema in PostgreSQL and/or ClickHouse
// so the dashboard can read the dataset from a database.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"creditcard-eda/internal/config"
	"creditcard-eda/internal/logger"
	"creditcard-eda/internal/storage/migrations"
	pgstore "creditcard-eda/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(".env"); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	timeout := flag.Duration("timeout", 2*time.Minute, "Migration timeout")
	logLevel := flag.String("log-level", os.Getenv(config.EnvLogLevel), "Log level")
	flag.Parse()

	log := logger.New(*logLevel)

	if *postgresDSN == "" && *clickhouseDSN == "" {
		log.Fatal().Msg("--postgres-dsn or --clickhouse-dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		pool.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("PostgreSQL migration failed")
		}
		log.Info().Strs("files", applied).Msg("PostgreSQL schema ready")
	}

	if *clickhouseDSN != "" {
		applied, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("ClickHouse migration failed")
		}
		log.Info().Strs("files", applied).Msg("ClickHouse schema ready")
	}
}
