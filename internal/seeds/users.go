package seeds

import (
	"log"

	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemoUsers creates two demo accounts for local battle testing. You
// need two browsers logged in as different users to see a match happen.
func SeedDemoUsers() {
	log.Println("Seeding demo users...")

	demos := []struct {
		Username string
		Email    string
	}{
		{"alice_dev", "alice@example.com"},
		{"bob_dev", "bob@example.com"},
	}

	for _, d := range demos {
		var existing models.User
		if err := database.DB.Where("email = ?", d.Email).First(&existing).Error; err == nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash demo password: %v", err)
			return
		}

		user := models.User{
			ID:       uuid.New().String(),
			Username: d.Username,
			Email:    d.Email,
			Password: string(hash),
			Level:    1,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", d.Username, err)
			continue
		}
		log.Printf("Seeded demo user: %s", d.Username)
	}
}
