package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenTTL = 24 * time.Hour

var signingKey []byte

func InitTokenSigner(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	signingKey = []byte(secret)
	return nil
}

type TokenData struct {
	Email string
	Role  string
	Exp   int64
}

// GenerateToken mints the bearer token handed out on register/login.
// The subject is the user's email, which every service uses as identity.
func GenerateToken(email, role string) (string, error) {
	if signingKey == nil {
		return "", errors.New("token signer not initialized")
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func ValidateToken(tokenString string) (*TokenData, error) {
	if signingKey == nil {
		return nil, errors.New("token signer not initialized")
	}

	clean := sanitizeToken(tokenString)
	token, err := jwt.Parse(clean, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	return &TokenData{
		Email: GetClaimString(claims, "sub"),
		Role:  GetClaimString(claims, "role"),
		Exp:   getClaimInt64(claims, "exp"),
	}, nil
}

func ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("missing authorization header")
	}
	return ValidateToken(token)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

func GetClaimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getClaimInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	return 0
}
