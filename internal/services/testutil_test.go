package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
	"github.com/MohammadMohid03/codenexus/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB gives each test its own named in-memory SQLite DB so tests
// never see each other's rows.
func setupTestDB(t *testing.T) {
	t.Helper()

	logger.Init("test")
	config.AppConfig = &config.Config{}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.QueueEntry{},
		&models.Battle{},
	); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	database.DB = db
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.User{
		ID:       utils.GenerateID(),
		Username: username,
		Email:    username + "@example.com",
		Level:    1,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func createTestChallenge(t *testing.T, diff models.Difficulty, cases []models.TestCase) *models.Challenge {
	t.Helper()
	data, _ := json.Marshal(cases)
	challenge := models.Challenge{
		ID:          utils.GenerateID(),
		Title:       fmt.Sprintf("%s challenge %s", diff, utils.GenerateID()[:8]),
		Description: "test challenge",
		Difficulty:  diff,
		TestCases:   string(data),
	}
	if err := database.DB.Create(&challenge).Error; err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}
	return &challenge
}

func enqueue(t *testing.T, userID string, diff models.Difficulty, joinedAt time.Time) *models.QueueEntry {
	t.Helper()
	entry := models.QueueEntry{
		ID:         utils.GenerateID(),
		UserID:     userID,
		Difficulty: diff,
		JoinedAt:   joinedAt,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		t.Fatalf("Failed to create queue entry: %v", err)
	}
	return &entry
}

func createActiveBattle(t *testing.T, p1, p2, challengeID string, startedAt time.Time) *models.Battle {
	t.Helper()
	battle := models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   p1,
		Player2ID:   p2,
		ChallengeID: challengeID,
		Status:      models.BattleStatusActive,
		StartedAt:   startedAt,
	}
	if err := database.DB.Create(&battle).Error; err != nil {
		t.Fatalf("Failed to create battle: %v", err)
	}
	return &battle
}
