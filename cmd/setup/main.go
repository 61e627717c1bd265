// Command setup prepares a fresh ledger database: it creates the Postgres
// database named by DB_NAME when missing and applies every migration. With
// STORAGE_DRIVER=sqlite it creates and migrates the SQLite file instead.
//
// The -reset flag drops the database first. For Postgres it terminates any
// open connections to it, for SQLite it removes the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Credence_Go/internal/config"
	"github.com/osse101/Credence_Go/internal/database"
	"github.com/osse101/Credence_Go/internal/database/sqlite"
)

// maintenanceDB is the database connected to while creating the target
const maintenanceDB = "postgres"

const setupTimeout = 2 * time.Minute

func main() {
	reset := flag.Bool("reset", false, "drop the Postgres database before recreating it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	if cfg.IsSQLite() {
		if *reset {
			if err := os.Remove(cfg.SQLitePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Fatalf("Failed to remove %s: %v", cfg.SQLitePath, err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to prepare %s: %v", cfg.SQLitePath, err)
		}
		store.Close()
		fmt.Printf("SQLite database %s is migrated.\n", cfg.SQLitePath)
		return
	}

	created, err := ensureDatabase(ctx, cfg, *reset)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if created {
		fmt.Printf("Database %s created.\n", cfg.DBName)
	} else {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 2, 0, 0)
	if err != nil {
		log.Fatalf("Unable to connect to %s: %v", cfg.DBName, err)
	}
	defer pool.Close()

	fmt.Println("Running migrations...")
	if err := database.MigratePostgres(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	fmt.Println("Migrations completed successfully.")
}

// ensureDatabase creates cfg.DBName through the maintenance database and
// reports whether it had to
func ensureDatabase(ctx context.Context, cfg *config.Config, reset bool) (bool, error) {
	admin := *cfg
	admin.DBName = maintenanceDB

	conn, err := pgx.Connect(ctx, admin.GetDBConnString())
	if err != nil {
		return false, fmt.Errorf("unable to connect to %s database: %w", maintenanceDB, err)
	}
	defer conn.Close(ctx)

	ident := pgx.Identifier{cfg.DBName}.Sanitize()
	if reset {
		fmt.Printf("Terminating existing connections to database %s...\n", cfg.DBName)
		_, err := conn.Exec(ctx, `SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()`, cfg.DBName)
		if err != nil {
			fmt.Printf("Warning: failed to terminate connections: %v\n", err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
			return false, fmt.Errorf("failed to drop database: %w", err)
		}
		fmt.Printf("Database %s dropped.\n", cfg.DBName)
	}

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return false, fmt.Errorf("failed to create database: %w", err)
	}
	return true, nil
}
