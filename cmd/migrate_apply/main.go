package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"taskboard/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	down := flag.Int("down", 0, "roll back this many migrations")
	flag.Parse()

	_ = godotenv.Load()

	if !*apply && *down == 0 {
		files, err := db.MigrationFiles()
		if err != nil {
			log.Fatalf("read migrations: %v", err)
		}
		for _, name := range files {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	if *down > 0 {
		if err := db.MigrateDown(dsn, *down); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		fmt.Printf("rolled back %d migration(s)\n", *down)
		return
	}

	if err := db.Migrate(dsn); err != nil {
		log.Fatalf("apply failed: %v", err)
	}
	fmt.Println("migrations applied")
}
