package models

import "time"

type BattleStatus string

const (
	BattleStatusActive    BattleStatus = "active"
	BattleStatusCompleted BattleStatus = "completed"
	BattleStatusExpired   BattleStatus = "expired"
)

// QueueEntry is a pending matchmaking request. The unique index on
// UserID is what enforces "at most one entry per user" even when two
// join requests race.
type QueueEntry struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	UserID     string     `gorm:"uniqueIndex;type:text" json:"userId"`
	Difficulty Difficulty `gorm:"type:text;index" json:"difficulty"`
	JoinedAt   time.Time  `gorm:"index" json:"joinedAt"`
}

func (QueueEntry) TableName() string {
	return "battle_queue"
}

// Battle is a live or finished 1v1 duel over one challenge.
//
// Status only ever moves active -> completed or active -> expired, and
// every mutation after creation is a conditional update on
// status = 'active'. Multiple server instances may race on the same row;
// the rows-affected count of that conditional update is the only
// arbitration primitive.
type Battle struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	Player1ID string `gorm:"type:text;index:idx_battles_status_p1,priority:2" json:"player1Id"`
	Player2ID string `gorm:"type:text;index:idx_battles_status_p2,priority:2" json:"player2Id"`

	ChallengeID string    `gorm:"type:text" json:"challengeId"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`

	Status BattleStatus `gorm:"type:text;index:idx_battles_status_p1,priority:1;index:idx_battles_status_p2,priority:1;index:idx_battles_status_started,priority:1" json:"status"`

	StartedAt time.Time  `gorm:"index:idx_battles_status_started,priority:2" json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`

	// Per-player results. Time is seconds from StartedAt to the accepted
	// submission; nil until that player solves.
	Player1Time *int   `json:"player1Time"`
	Player2Time *int   `json:"player2Time"`
	Player1Code string `gorm:"type:text" json:"player1Code,omitempty"`
	Player2Code string `gorm:"type:text" json:"player2Code,omitempty"`

	WinnerID  *string `gorm:"type:text" json:"winnerId"`
	ForfeitBy *string `gorm:"type:text" json:"forfeitBy"`
}

func (Battle) TableName() string {
	return "battles"
}

// HasPlayer reports whether userID is one of the two participants.
func (b *Battle) HasPlayer(userID string) bool {
	return b.Player1ID == userID || b.Player2ID == userID
}

// Opponent returns the other participant's id. Callers must have
// verified participation first.
func (b *Battle) Opponent(userID string) string {
	if b.Player1ID == userID {
		return b.Player2ID
	}
	return b.Player1ID
}

// SolveTime returns the recorded solve time for the given participant,
// or nil if they have not solved yet.
func (b *Battle) SolveTime(userID string) *int {
	if b.Player1ID == userID {
		return b.Player1Time
	}
	return b.Player2Time
}
