package service

import (
	"time"

	"github.com/zaruba-app/zaruba/scoring/session"
)

// RegisterResult is returned to the first participant after registration.
type RegisterResult struct {
	SessionKey  string `json:"session_key"`
	DisplayName string `json:"display_name"`
}

// SessionInfo is the full state snapshot of one session, as delivered to
// clients in state_update frames and admin views.
type SessionInfo struct {
	SessionKey   string                    `json:"session_key"`
	ParticipantA string                    `json:"participant_a"`
	ParticipantB string                    `json:"participant_b"`
	Scores       map[string]map[string]int `json:"scores"`
	CreatedAt    time.Time                 `json:"created_at"`
}

func infoFromSession(s *session.Session) *SessionInfo {
	return &SessionInfo{
		SessionKey:   s.Key(),
		ParticipantA: s.ParticipantA,
		ParticipantB: s.ParticipantB,
		Scores:       s.Scores,
		CreatedAt:    s.CreatedAt,
	}
}
