package services

import (
	"context"
	"time"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/session"
	"declutteredWeb/internal/supabase"
)

// AuthService exchanges credentials for backend sessions. The backend
// owns accounts and passwords; this service only shapes its responses
// into our server side session payload.
type AuthService struct {
	Supabase *supabase.Client
}

func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (*session.Session, error) {
	sbSess, err := s.Supabase.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	// Some auth configurations withhold tokens until the email is
	// confirmed; signing in right after covers the auto-confirm setup.
	if sbSess.AccessToken == "" {
		sbSess, err = s.Supabase.SignInWithPassword(ctx, req.Email, req.Password)
		if err != nil {
			return nil, err
		}
	}
	return sessionFromSupabase(sbSess), nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	sbSess, err := s.Supabase.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return sessionFromSupabase(sbSess), nil
}

// Refresh swaps the session's refresh token for a new token pair and
// updates the session in place.
func (s *AuthService) Refresh(ctx context.Context, sess *session.Session) error {
	if sess.Tokens.RefreshToken == "" {
		return models.ErrSessionExpired
	}
	sbSess, err := s.Supabase.RefreshSession(ctx, sess.Tokens.RefreshToken)
	if err != nil {
		return err
	}
	sess.SetTokens(sbSess.Tokens(), time.Now())
	if sbSess.User.ID != "" {
		sess.Account = sbSess.User.Account()
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (models.Account, error) {
	user, err := s.Supabase.GetUser(ctx, accessToken)
	if err != nil {
		return models.Account{}, err
	}
	return user.Account(), nil
}

// SignOutRemote revokes the backend session. Local session teardown
// happens regardless of whether this call succeeds.
func (s *AuthService) SignOutRemote(ctx context.Context, accessToken string) error {
	return s.Supabase.SignOut(ctx, accessToken)
}

func sessionFromSupabase(sbSess supabase.Session) *session.Session {
	sess := &session.Session{
		Account: sbSess.User.Account(),
		Wizard:  models.NewWizardState(),
	}
	sess.SetTokens(sbSess.Tokens(), time.Now())
	return sess
}
