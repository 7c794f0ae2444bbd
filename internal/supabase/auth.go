package supabase

import (
	"context"
	"strings"
	"time"

	"declutteredWeb/internal/models"
)

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (u User) Account() models.Account {
	acc := models.Account{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	if name, ok := u.UserMetadata["name"].(string); ok {
		acc.Name = name
	}
	if avatar, ok := u.UserMetadata["avatar_url"].(string); ok && avatar != "" {
		acc.AvatarURL = &avatar
	}
	return acc
}

func (s Session) Tokens() models.AuthTokens {
	return models.AuthTokens{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
	}
}

type credentialsBody struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (Session, error) {
	result := &Session{}

	body := credentialsBody{Email: req.Email, Password: req.Password}
	if req.Name != "" {
		body.Data = map[string]any{"name": req.Name}
	}

	res, err := handleError(c.req(ctx, "", result).
		SetBody(body).
		Post("/auth/v1/signup"))
	if err != nil {
		if res != nil && res.StatusCode() >= 400 && res.StatusCode() < 500 &&
			strings.Contains(strings.ToLower(err.Error()), "already") {
			return Session{}, models.ErrDuplicateEmail
		}
		return Session{}, err
	}
	return *result, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	result := &Session{}

	res, err := handleError(c.req(ctx, "", result).
		SetQueryParam("grant_type", "password").
		SetBody(credentialsBody{Email: email, Password: password}).
		Post("/auth/v1/token"))
	if err != nil {
		if res != nil && (res.StatusCode() == 400 || res.StatusCode() == 401) {
			return Session{}, models.ErrInvalidCredentials
		}
		return Session{}, err
	}
	return *result, nil
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (Session, error) {
	result := &Session{}

	res, err := handleError(c.req(ctx, "", result).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		Post("/auth/v1/token"))
	if err != nil {
		if res != nil && (res.StatusCode() == 400 || res.StatusCode() == 401) {
			return Session{}, models.ErrSessionExpired
		}
		return Session{}, err
	}
	return *result, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	result := &User{}

	res, err := handleError(c.req(ctx, accessToken, result).
		Get("/auth/v1/user"))
	if err != nil {
		if res != nil && res.StatusCode() == 401 {
			return User{}, models.ErrNoSession
		}
		return User{}, err
	}
	return *result, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := handleError(c.req(ctx, accessToken, nil).
		Post("/auth/v1/logout"))
	return err
}
