package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/internal/services"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
	"github.com/MohammadMohid03/codenexus/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupHandlerTest gives each test its own in-memory SQLite DB so tests
// never see each other's rows.
func setupHandlerTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	config.AppConfig = &config.Config{}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	database.DB = db
	database.Redis = nil
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.QueueEntry{},
		&models.Battle{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
}

func seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       utils.GenerateID(),
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	}
	if err := database.DB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func seedChallenge(t *testing.T, diff models.Difficulty) *models.Challenge {
	t.Helper()
	cases, _ := json.Marshal([]models.TestCase{{Input: "1 2", Expected: "3"}})
	challenge := &models.Challenge{
		ID:          utils.GenerateID(),
		Title:       "Sum " + string(diff),
		Description: "Add two numbers",
		Difficulty:  diff,
		TestCases:   string(cases),
	}
	if err := database.DB.Create(challenge).Error; err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	return challenge
}

func authedContext(t *testing.T, userID, method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, "/uri", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("userId", userID)
	return c, w
}

func TestJoinBattleQueue_Queued(t *testing.T) {
	setupHandlerTest(t)
	seedChallenge(t, models.DifficultyEasy)
	user := seedUser(t, "h_queued")

	c, w := authedContext(t, user.ID, "POST", `{"difficulty":"easy"}`)
	JoinBattleQueue(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp["status"])
	assert.Equal(t, "easy", resp["difficulty"])
	assert.EqualValues(t, 120, resp["expiresIn"])
	assert.EqualValues(t, 2, resp["pollInterval"])
}

func TestJoinBattleQueue_Matched(t *testing.T) {
	setupHandlerTest(t)
	seedChallenge(t, models.DifficultyEasy)
	waiting := seedUser(t, "h_waiting")
	joiner := seedUser(t, "h_joiner")

	database.DB.Create(&models.QueueEntry{
		ID:         utils.GenerateID(),
		UserID:     waiting.ID,
		Difficulty: models.DifficultyEasy,
		JoinedAt:   time.Now().Add(-10 * time.Second),
	})

	c, w := authedContext(t, joiner.ID, "POST", `{"difficulty":"easy"}`)
	JoinBattleQueue(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"matched"`)
	// Hidden test data never leaves the API.
	assert.NotContains(t, w.Body.String(), `"3"`)
}

func TestJoinBattleQueue_MissingDifficulty(t *testing.T) {
	setupHandlerTest(t)
	user := seedUser(t, "h_nodiff")

	c, w := authedContext(t, user.ID, "POST", `{}`)
	JoinBattleQueue(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinBattleQueue_AlreadyInBattle(t *testing.T) {
	setupHandlerTest(t)
	challenge := seedChallenge(t, models.DifficultyEasy)
	a := seedUser(t, "h_busy_a")
	b := seedUser(t, "h_busy_b")

	database.DB.Create(&models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   a.ID,
		Player2ID:   b.ID,
		ChallengeID: challenge.ID,
		Status:      models.BattleStatusActive,
		StartedAt:   time.Now(),
	})

	c, w := authedContext(t, a.ID, "POST", `{"difficulty":"easy"}`)
	JoinBattleQueue(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "active battle")
}

func TestGetActiveBattle_NullWhenIdle(t *testing.T) {
	setupHandlerTest(t)
	user := seedUser(t, "h_idle")

	c, w := authedContext(t, user.ID, "GET", "")
	GetActiveBattle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestSubmitBattleSolution_Failed(t *testing.T) {
	setupHandlerTest(t)
	challenge := seedChallenge(t, models.DifficultyEasy)
	a := seedUser(t, "h_sub_a")
	b := seedUser(t, "h_sub_b")

	battle := &models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   a.ID,
		Player2ID:   b.ID,
		ChallengeID: challenge.ID,
		Status:      models.BattleStatusActive,
		StartedAt:   time.Now(),
	}
	database.DB.Create(battle)

	orig := services.ExecuteCode
	services.ExecuteCode = func(language, code, stdin string) (*services.PistonExecuteResponse, error) {
		resp := &services.PistonExecuteResponse{}
		resp.Run.Stdout = "wrong"
		return resp, nil
	}
	t.Cleanup(func() { services.ExecuteCode = orig })

	c, w := authedContext(t, a.ID, "POST", `{"code":"print(0)","language":"python"}`)
	c.Params = gin.Params{{Key: "battleId", Value: battle.ID}}
	SubmitBattleSolution(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)
	// Expected outputs stay hidden even on failure.
	assert.NotContains(t, w.Body.String(), `"3"`)
}

func TestSubmitBattleSolution_CompletedBattleConflict(t *testing.T) {
	setupHandlerTest(t)
	challenge := seedChallenge(t, models.DifficultyEasy)
	a := seedUser(t, "h_late_a")
	b := seedUser(t, "h_late_b")

	battle := &models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   a.ID,
		Player2ID:   b.ID,
		ChallengeID: challenge.ID,
		Status:      models.BattleStatusCompleted,
		StartedAt:   time.Now().Add(-time.Minute),
		WinnerID:    &b.ID,
	}
	database.DB.Create(battle)

	c, w := authedContext(t, a.ID, "POST", `{"code":"print(0)","language":"python"}`)
	c.Params = gin.Params{{Key: "battleId", Value: battle.ID}}
	SubmitBattleSolution(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
}

func TestForfeitBattle_Handler(t *testing.T) {
	setupHandlerTest(t)
	challenge := seedChallenge(t, models.DifficultyEasy)
	a := seedUser(t, "h_ff_a")
	b := seedUser(t, "h_ff_b")

	battle := &models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   a.ID,
		Player2ID:   b.ID,
		ChallengeID: challenge.ID,
		Status:      models.BattleStatusActive,
		StartedAt:   time.Now(),
	}
	database.DB.Create(battle)

	c, w := authedContext(t, a.ID, "POST", "")
	c.Params = gin.Params{{Key: "battleId", Value: battle.ID}}
	ForfeitBattle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"forfeited"`)
	assert.Contains(t, w.Body.String(), b.ID)
}

func TestGetBattleHistory_Handler(t *testing.T) {
	setupHandlerTest(t)
	challenge := seedChallenge(t, models.DifficultyEasy)
	a := seedUser(t, "h_hist_a")
	b := seedUser(t, "h_hist_b")

	ended := time.Now().Add(-time.Hour)
	database.DB.Create(&models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   a.ID,
		Player2ID:   b.ID,
		ChallengeID: challenge.ID,
		Status:      models.BattleStatusCompleted,
		StartedAt:   ended.Add(-5 * time.Minute),
		WinnerID:    &a.ID,
		EndedAt:     &ended,
	})

	c, w := authedContext(t, a.ID, "GET", "")
	GetBattleHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var battles []models.Battle
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &battles))
	assert.Len(t, battles, 1)
}
