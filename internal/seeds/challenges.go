package seeds

import (
	"encoding/json"
	"log"

	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type seedChallenge struct {
	Title       string
	Description string
	Difficulty  models.Difficulty
	Tags        []string
	Cases       []models.TestCase
}

// SeedChallenges populates the catalog. Idempotent: existing titles are
// skipped. Every difficulty must end up non-empty or matchmaking for that
// bucket is broken.
func SeedChallenges() {
	log.Println("Seeding challenges...")

	challenges := []seedChallenge{
		{
			Title:       "Two Sum",
			Description: "Given an array of integers and a target integer, print the indices of the two numbers such that they add up to target.\n\nInput Format:\nFirst line: N (size of array)\nSecond line: N space-separated integers\nThird line: Target integer\n\nOutput Format:\nTwo space-separated indices (sorted).",
			Difficulty:  models.DifficultyEasy,
			Tags:        []string{"arrays", "hash-map", "two-pointers"},
			Cases: []models.TestCase{
				{Input: "4\n2 7 11 15\n9", Expected: "0 1"},
				{Input: "3\n3 2 4\n6", Expected: "1 2"},
				{Input: "2\n3 3\n6", Expected: "0 1"},
			},
		},
		{
			Title:       "Palindrome Number",
			Description: "Given an integer x, print 'true' if x is a palindrome, and 'false' otherwise.\n\nInput Format:\nA single integer x.\n\nOutput Format:\n'true' or 'false'.",
			Difficulty:  models.DifficultyEasy,
			Tags:        []string{"math", "string"},
			Cases: []models.TestCase{
				{Input: "121", Expected: "true"},
				{Input: "-121", Expected: "false"},
				{Input: "10", Expected: "false"},
			},
		},
		{
			Title:       "Reverse String",
			Description: "Write a program that reverses a string.\n\nInput Format:\nA single string.\n\nOutput Format:\nThe reversed string.",
			Difficulty:  models.DifficultyEasy,
			Tags:        []string{"strings", "two-pointers"},
			Cases: []models.TestCase{
				{Input: "hello", Expected: "olleh"},
				{Input: "Hannah", Expected: "hannaH"},
			},
		},
		{
			Title:       "Find Maximum",
			Description: "Find the maximum element in an array.\n\nInput Format:\nFirst line: N (size)\nSecond line: N integers\n\nOutput Format:\nThe maximum integer.",
			Difficulty:  models.DifficultyEasy,
			Tags:        []string{"arrays", "iteration"},
			Cases: []models.TestCase{
				{Input: "5\n1 5 3 9 2", Expected: "9"},
				{Input: "3\n-1 -5 -2", Expected: "-1"},
			},
		},
		{
			Title:       "Factorial",
			Description: "Calculate the factorial of a non-negative integer N.\n\nInput Format:\nA single integer N.\n\nOutput Format:\nThe factorial of N.",
			Difficulty:  models.DifficultyMedium,
			Tags:        []string{"math", "recursion"},
			Cases: []models.TestCase{
				{Input: "5", Expected: "120"},
				{Input: "0", Expected: "1"},
				{Input: "3", Expected: "6"},
			},
		},
		{
			Title:       "Fibonacci Sequence",
			Description: "Given N, print the Nth Fibonacci number (0-indexed).\n\nInput Format:\nA single integer N.\n\nOutput Format:\nThe Nth Fibonacci number.",
			Difficulty:  models.DifficultyMedium,
			Tags:        []string{"math", "dynamic-programming"},
			Cases: []models.TestCase{
				{Input: "0", Expected: "0"},
				{Input: "1", Expected: "1"},
				{Input: "10", Expected: "55"},
			},
		},
		{
			Title:       "Binary Search",
			Description: "Given a sorted array and a target, print the index of the target or -1 if not found.\n\nInput Format:\nFirst line: N\nSecond line: N sorted integers\nThird line: Target\n\nOutput Format:\nThe index, or -1.",
			Difficulty:  models.DifficultyMedium,
			Tags:        []string{"arrays", "binary-search"},
			Cases: []models.TestCase{
				{Input: "6\n-1 0 3 5 9 12\n9", Expected: "4"},
				{Input: "6\n-1 0 3 5 9 12\n2", Expected: "-1"},
			},
		},
		{
			Title:       "Merge Sorted Arrays",
			Description: "Merge two sorted arrays into one sorted array.\n\nInput Format:\nFirst line: N M\nSecond line: N sorted integers\nThird line: M sorted integers\n\nOutput Format:\nThe merged sorted array, space-separated.",
			Difficulty:  models.DifficultyHard,
			Tags:        []string{"arrays", "two-pointers", "sorting"},
			Cases: []models.TestCase{
				{Input: "3 3\n1 2 4\n1 3 4", Expected: "1 1 2 3 4 4"},
				{Input: "1 1\n5\n1", Expected: "1 5"},
			},
		},
	}

	for _, sc := range challenges {
		var existing models.Challenge
		if err := database.DB.Where("title = ?", sc.Title).First(&existing).Error; err == nil {
			continue
		}

		cases, err := json.Marshal(sc.Cases)
		if err != nil {
			log.Printf("Skipping %s: %v", sc.Title, err)
			continue
		}

		challenge := models.Challenge{
			ID:          uuid.New().String(),
			Title:       sc.Title,
			Description: sc.Description,
			Difficulty:  sc.Difficulty,
			Tags:        pq.StringArray(sc.Tags),
			TestCases:   string(cases),
		}

		if err := database.DB.Create(&challenge).Error; err != nil {
			log.Printf("Failed to seed %s: %v", sc.Title, err)
			continue
		}
		log.Printf("Seeded challenge: %s (%s)", sc.Title, sc.Difficulty)
	}
}
