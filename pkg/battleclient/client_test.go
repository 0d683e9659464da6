package battleclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinQueue_Matched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/battles/queue", r.URL.Path)
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "easy", body["difficulty"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "matched",
			"battle": map[string]interface{}{"id": "b1", "status": "active"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "token123")
	resp, err := client.JoinQueue(context.Background(), "easy")

	assert.NoError(t, err)
	assert.Equal(t, "matched", resp.Status)
	if assert.NotNil(t, resp.Battle) {
		assert.Equal(t, "b1", resp.Battle.ID)
	}
}

func TestJoinQueue_AdoptsServerPollInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "queued",
			"difficulty":   "easy",
			"expiresIn":    120,
			"pollInterval": 5,
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "token")
	resp, err := client.JoinQueue(context.Background(), "easy")

	assert.NoError(t, err)
	assert.Equal(t, "queued", resp.Status)
	assert.Equal(t, 120, resp.ExpiresIn)
	assert.Equal(t, 5*time.Second, client.pollInterval)
}

func TestWaitForMatch_PollsUntilBattle(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/battles/active", r.URL.Path)
		if atomic.AddInt32(&calls, 1) < 3 {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "b2", "status": "active"})
	}))
	defer srv.Close()

	client := New(srv.URL, "token", WithPollInterval(5*time.Millisecond))
	battle, err := client.WaitForMatch(context.Background())

	assert.NoError(t, err)
	if assert.NotNil(t, battle) {
		assert.Equal(t, "b2", battle.ID)
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestWaitForMatch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	client := New(srv.URL, "token", WithPollInterval(5*time.Millisecond))
	_, err := client.WaitForMatch(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/battles/b3/submit", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":         "success",
			"time":           42,
			"battleComplete": true,
			"won":            true,
			"xpAwarded":      50,
			"testResults":    []map[string]interface{}{{"index": 1, "passed": true}},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "token")
	resp, err := client.Submit(context.Background(), "b3", "python", "print(1)")

	assert.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.Won)
	assert.Equal(t, 42, resp.Time)
	assert.Equal(t, 50, resp.XPAwarded)
}

func TestSubmit_ConflictCarriesBattleStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "Battle is no longer active",
			"status": "completed",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "token")
	_, err := client.Submit(context.Background(), "b4", "python", "print(1)")

	apiErr, ok := err.(*APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, "completed", apiErr.BattleStatus)
		assert.Contains(t, apiErr.Message, "no longer active")
	}
}

func TestForfeitAndHistory(t *testing.T) {
	winner := "opponent-id"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/battles/b5/forfeit":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "forfeited",
				"winner_id": winner,
			})
		case "/api/battles/history":
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": "b5", "status": "completed", "winnerId": winner},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, "token")

	forfeit, err := client.Forfeit(context.Background(), "b5")
	assert.NoError(t, err)
	assert.Equal(t, "forfeited", forfeit.Status)
	if assert.NotNil(t, forfeit.WinnerID) {
		assert.Equal(t, winner, *forfeit.WinnerID)
	}

	history, err := client.History(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, history, 1) {
		assert.Equal(t, "b5", history[0].ID)
	}
}
