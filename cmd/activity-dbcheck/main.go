package main

import (
	"fmt"
	"log"

	"activityapi/internal/server"
	"activityapi/internal/shared"
)

// Only the DB path is needed here, so ADMIN_TOKEN is not required.
type config struct {
	DBPath string `env:"ACTIVITY_DB_PATH" envDefault:"./data/activity.db"`
}

func main() {
	var cfg config
	if err := shared.ParseEnv(&cfg); err != nil {
		log.Fatal(err)
	}

	db, err := server.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name;`)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Fatalf("scan failed: %v", err)
		}
		tables = append(tables, name)
	}
	rows.Close()

	fmt.Println("DB:", cfg.DBPath)
	fmt.Println("Tables:")
	for _, name := range tables {
		fmt.Println(" -", name)
	}

	counts := []struct{ label, query string }{
		{"Status items (active)", `SELECT COUNT(*) FROM status_items WHERE is_active = 1;`},
		{"Status items (total)", `SELECT COUNT(*) FROM status_items;`},
		{"Logs", `SELECT COUNT(*) FROM logs;`},
		{"Migrations", `SELECT COUNT(*) FROM schema_migrations;`},
	}
	for _, c := range counts {
		var n int
		if err := db.QueryRow(c.query).Scan(&n); err != nil {
			log.Fatalf("%s: %v", c.label, err)
		}
		fmt.Printf("%s: %d\n", c.label, n)
	}
}
