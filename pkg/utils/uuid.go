package utils

import "github.com/google/uuid"

// GenerateID returns a fresh UUID string. Every entity id in the system
// (users, challenges, battles, queue entries) is a string UUID; participant
// identity checks compare these strings directly.
func GenerateID() string {
	return uuid.New().String()
}

// IsUUID checks if the string is a valid UUID
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
