package supabase

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"

	"declutteredWeb/internal/models"
)

// TokenVerifier checks access tokens locally against the project JWT
// secret, so a round trip to the auth endpoint is not needed on every
// request.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Verify(accessToken string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, models.ErrSessionExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, models.ErrNoSession
	}
	return claims, nil
}
