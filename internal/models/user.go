package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deletedAt" json:"-"`

	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Username string `gorm:"uniqueIndex" json:"username"`
	Image    string `json:"image"`

	// Gamification. XP is only ever mutated via atomic increments
	// (xp = xp + ?) so concurrent awards never lose updates.
	XP    int `gorm:"default:0" json:"xp"`
	Level int `gorm:"default:1" json:"level"`

	Password string `json:"-"`
}

func (User) TableName() string {
	return "users"
}
