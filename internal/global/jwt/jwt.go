package jwt

import (
	"time"

	"attendance-lms/config"

	"github.com/golang-jwt/jwt"
)

// Claims is the identity issued by the LMS login for one user.
type Claims struct {
	LmsUserID uint   `json:"lms_user_id"`
	CourseID  uint   `json:"course_id"`
	RoleID    int    `json:"role_id"`
	UserName  string `json:"user_name"`
	jwt.StandardClaims
}

// GenerateToken signs claims with the configured secret, filling the
// expiry when unset.
func GenerateToken(claims Claims) (string, error) {
	cfg := config.Get().JWT
	if claims.ExpiresAt == 0 {
		claims.ExpiresAt = time.Now().Add(time.Duration(cfg.AccessExpire) * time.Second).Unix()
	}
	if claims.IssuedAt == 0 {
		claims.IssuedAt = time.Now().Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSecret))
}

func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
