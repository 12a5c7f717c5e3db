package googleauth

import (
	"errors"
	"fmt"

	"coursehub/cmd/internal/utils"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// URL where Google publishes its public keys
const jwksURL = "https://www.googleapis.com/oauth2/v3/certs"

// Claims carries the profile fields extracted from a verified Google
// ID token.
type Claims struct {
	Email   string
	Name    string
	Picture string
}

type Verifier struct {
	jwks     keyfunc.Keyfunc
	clientID string
}

func NewVerifier(clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is not set")
	}

	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	return &Verifier{jwks: jwks, clientID: clientID}, nil
}

// Verify validates the signature, issuer and audience of a Google ID
// token and returns the profile claims.
func (v *Verifier) Verify(idToken string) (*Claims, error) {
	token, err := jwt.Parse(idToken, v.jwks.Keyfunc,
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
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

	iss := utils.GetClaimString(claims, "iss")
	if iss != "accounts.google.com" && iss != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer: %s", iss)
	}

	email := utils.GetClaimString(claims, "email")
	if email == "" {
		return nil, errors.New("token has no email claim")
	}

	return &Claims{
		Email:   email,
		Name:    utils.GetClaimString(claims, "name"),
		Picture: utils.GetClaimString(claims, "picture"),
	}, nil
}
