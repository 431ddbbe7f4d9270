// internal/common/database/transcripts.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const createTranscriptsTable = `
CREATE TABLE IF NOT EXISTS chat_transcripts (
	id          UUID PRIMARY KEY,
	request_id  TEXT NOT NULL,
	user_id     TEXT,
	session_id  TEXT,
	message     TEXT NOT NULL,
	reply       TEXT NOT NULL,
	intent      TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	entities    JSONB,
	created_at  TIMESTAMPTZ NOT NULL
)`

const insertTranscript = `
INSERT INTO chat_transcripts
	(id, request_id, user_id, session_id, message, reply, intent, confidence, entities, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Transcript is one answered chat exchange.
type Transcript struct {
	ID         string
	RequestID  string
	UserID     string
	SessionID  string
	Message    string
	Reply      string
	Intent     string
	Confidence float64
	Entities   map[string]interface{}
	CreatedAt  time.Time
}

// TranscriptStore appends chat exchanges to Postgres.
type TranscriptStore struct {
	db *sql.DB
}

func NewTranscriptStore(db *sql.DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

// EnsureSchema creates the transcripts table if it does not exist.
func (s *TranscriptStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTranscriptsTable); err != nil {
		return fmt.Errorf("create chat_transcripts: %w", err)
	}
	return nil
}

// Save inserts t, filling ID and CreatedAt when they are empty.
func (s *TranscriptStore) Save(ctx context.Context, t Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	var entities []byte
	if len(t.Entities) > 0 {
		var err error
		entities, err = json.Marshal(t.Entities)
		if err != nil {
			return fmt.Errorf("encode entities: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, insertTranscript,
		t.ID,
		t.RequestID,
		nullString(t.UserID),
		nullString(t.SessionID),
		t.Message,
		t.Reply,
		t.Intent,
		t.Confidence,
		entities,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
