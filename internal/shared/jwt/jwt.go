package jwt

import (
	"errors"
	"os"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string
	Admin  bool
}

func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	// dev fallback; replace in prod
	return []byte("replace-this-with-a-strong-secret")
}

// Parse validates an HS256 JWT and returns the user id from the "sub"
// claim plus the optional "admin" claim.
func Parse(tok string) (Claims, error) {
	t, err := jw.Parse(tok, func(t *jw.Token) (any, error) {
		return secret(), nil
	})
	if err != nil || !t.Valid {
		return Claims{}, errors.New("invalid token")
	}
	mc, ok := t.Claims.(jw.MapClaims)
	if !ok {
		return Claims{}, errors.New("bad claims")
	}
	uid, _ := mc["sub"].(string)
	if uid == "" {
		return Claims{}, errors.New("no subject")
	}
	if exp, ok := mc["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
		return Claims{}, errors.New("token expired")
	}
	admin, _ := mc["admin"].(bool)
	return Claims{UserID: uid, Admin: admin}, nil
}

// Sign issues a token for uid; used by the seeder and tests.
func Sign(uid string, admin bool, ttl time.Duration) (string, error) {
	claims := jw.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(ttl).Unix(),
	}
	if admin {
		claims["admin"] = true
	}
	t := jw.NewWithClaims(jw.SigningMethodHS256, claims)
	return t.SignedString(secret())
}
