package session

import (
	"time"

	"declutteredWeb/internal/models"
)

// tokenSkew refreshes access tokens slightly before their real expiry
// so an in-flight request never carries a token that dies mid-call.
const tokenSkew = 30 * time.Second

// Session is everything the server remembers about one signed-in
// browser: the backend tokens, the account snapshot, and the declutter
// wizard position.
type Session struct {
	ID          string             `json:"id"`
	Account     models.Account     `json:"account"`
	Tokens      models.AuthTokens  `json:"tokens"`
	TokenExpiry time.Time          `json:"token_expiry"`
	Wizard      models.WizardState `json:"wizard"`
	ActiveJobID string             `json:"active_job_id,omitempty"`
	Flash       string             `json:"flash,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (s *Session) SetTokens(tokens models.AuthTokens, now time.Time) {
	s.Tokens = tokens
	s.TokenExpiry = tokens.ExpiresAt(now)
}

func (s *Session) TokenExpired(now time.Time) bool {
	if s.TokenExpiry.IsZero() {
		return false
	}
	return now.After(s.TokenExpiry.Add(-tokenSkew))
}

// PopFlash returns the pending flash message and clears it.
func (s *Session) PopFlash() string {
	flash := s.Flash
	s.Flash = ""
	return flash
}
