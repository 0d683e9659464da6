package main

import (
	"log"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations (just in case)...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.QueueEntry{},
		&models.Battle{},
	); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	seeds.SeedChallenges()
	seeds.SeedDemoUsers()

	log.Println("Seeding complete")
}
