package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/userhub/internal/application/auth"
	"github.com/baechuer/userhub/internal/domain"
)

type JWTCodec struct {
	secret []byte
}

func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret)}
}

type identityClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Issue signs id as an HS256 token expiring at now+ttl. The expiry is always
// recomputed here so a caller can never mint a token with a chosen expiry.
func (c *JWTCodec) Issue(id auth.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		UserID: id.UserID,
		Email:  id.Email,
		Scopes: id.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Decode verifies the signature first, then the expiry, and never returns
// partially-trusted claims. The raw token string is echoed back into the
// returned identity.
func (c *JWTCodec) Decode(token string) (auth.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &identityClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Identity{}, domain.ErrTokenExpired()
		}
		return auth.Identity{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid {
		return auth.Identity{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return auth.Identity{
		Username: claims.Subject,
		UserID:   claims.UserID,
		Email:    claims.Email,
		Scopes:   claims.Scopes,
		Exp:      exp,
		Token:    token,
	}, nil
}
