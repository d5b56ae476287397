package main

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// main applies the embedded migrations in filename order, tracking applied
// versions in schema_migrations so reruns are no-ops.
func main() {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(`create table if not exists schema_migrations (
		version text primary key,
		applied_at timestamptz not null default now()
	)`); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init schema_migrations: %v\n", err)
		os.Exit(1)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read migrations: %v\n", err)
		os.Exit(1)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		version := entry.Name()
		var applied bool
		if err := db.QueryRow(`select exists (select 1 from schema_migrations where version = $1)`, version).Scan(&applied); err != nil {
			fmt.Fprintf(os.Stderr, "failed to check %s: %v\n", version, err)
			os.Exit(1)
		}
		if applied {
			continue
		}

		body, err := migrationFiles.ReadFile("migrations/" + version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", version, err)
			os.Exit(1)
		}

		tx, err := db.Begin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to begin tx for %s: %v\n", version, err)
			os.Exit(1)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			fmt.Fprintf(os.Stderr, "failed to apply %s: %v\n", version, err)
			os.Exit(1)
		}
		if _, err := tx.Exec(`insert into schema_migrations (version) values ($1)`, version); err != nil {
			_ = tx.Rollback()
			fmt.Fprintf(os.Stderr, "failed to record %s: %v\n", version, err)
			os.Exit(1)
		}
		if err := tx.Commit(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to commit %s: %v\n", version, err)
			os.Exit(1)
		}
		fmt.Printf("applied %s\n", version)
	}
}
