package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Difficulty is stored lowercase. Normalize before any comparison or
// query so "Easy" and "easy" are the same bucket.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// NormalizeDifficulty lowers the input and reports whether it is one of
// the three known difficulties.
func NormalizeDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	}
	return "", false
}

// Challenge is a catalog problem. The catalog is read-only from this
// service's point of view; the seeder owns writes.
type Challenge struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deletedAt" json:"-"`

	Title       string         `json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Difficulty  Difficulty     `gorm:"type:text;index" json:"difficulty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`

	StarterCode string `gorm:"type:text" json:"starterCode"`

	// TestCases is a JSON array of {input, expected}. Hidden from battle
	// participants; handlers blank it before responding.
	TestCases string `gorm:"type:text" json:"testCases,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// TestCase is the decoded form of one entry in Challenge.TestCases.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}
