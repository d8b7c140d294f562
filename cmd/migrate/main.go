// Command migrate applies or inspects schema migrations without
// starting the API server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/guildofheroes/goh-api/internal/config"
	"github.com/guildofheroes/goh-api/internal/database"
)

func main() {
	dir := flag.String("dir", "migrations", "path to the migrations directory")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	switch cmd {
	case "up":
		if err := database.ApplyMigrations(db, *dir); err != nil {
			slog.Error("migrate up failed", "error", err)
			os.Exit(1)
		}
	case "version":
		version, dirty, err := database.MigrationVersion(db, *dir)
		if err != nil {
			slog.Error("reading version failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate [-dir path] [up|version]\n")
		os.Exit(2)
	}
}
