package main

import (
	"log"
	"os"

	"emojiart-be/internal/model"
	"emojiart-be/pkg/database"

	"github.com/joho/godotenv"
)

// Creates the postgres snapshots table used by STORE_DRIVER=postgres. The
// sqlite store creates its own table on open.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.CloseGormDB(db)

	log.Println("Running AutoMigrate for snapshots...")
	if err := db.AutoMigrate(&model.Snapshot{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
