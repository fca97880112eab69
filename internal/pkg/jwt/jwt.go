package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Roles carried in the "role" claim
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Token types carried in the "type" claim
const (
	TypeAccess = "access"
	TypeSSE    = "sse"
)

const sseTokenTTL = 5 * time.Minute

// Service verifies tokens issued by the authentication service. Issuing is kept for the CLI and tests.
type Service interface {
	GenerateAccessToken(employeeID string, role string, ttl time.Duration) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string, role string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, role string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, role string, ttl time.Duration) (token string, expiresAt int64, err error) {
	if role != RoleEmployee && role != RoleAdmin {
		return "", 0, fmt.Errorf("unknown role %q", role)
	}
	expiresAt = time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"employee_id": employeeID,
		"role":        role,
		"type":        TypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for EventSource clients, which cannot send headers
func (j *JWTService) GenerateSSEToken(employeeID string, role string) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"employee_id": employeeID,
		"role":        role,
		"type":        TypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its subject and role
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, role string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TypeSSE {
		return "", "", jwt.ErrInvalidJWT()
	}

	employeeIDVal, ok := token.Get("employee_id")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	employeeID, ok = employeeIDVal.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	roleVal, _ := token.Get("role")
	role, _ = roleVal.(string)

	return employeeID, role, nil
}
