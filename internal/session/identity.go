package session

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ContextKey is where the middleware stores the caller's Identity on the
// echo context.
const ContextKey = "identity"

// Identity is the read-only caller contract the engine consumes: who the
// caller is and whether they hold the admin role. It is populated once per
// request from verified JWT claims.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// FromContext returns the identity set by the JWT middleware.
func FromContext(c echo.Context) (Identity, bool) {
	ident, ok := c.Get(ContextKey).(Identity)
	return ident, ok
}

var jwtKey = []byte(os.Getenv("JWT_KEY"))

type JWTClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"` // Role is needed for RBAC in protected endpoints
	jwt.RegisteredClaims
}

func GenerateJWT(userID, name, role string, duration time.Duration) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func GetJWTKey() []byte {
	return jwtKey
}
