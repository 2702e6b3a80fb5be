package buildserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is embedded in every JWT this service mints and is the only
// issuer it accepts back, mirroring server/token.go's jwt.WithIssuer("tqs")
// check.
const tokenIssuer = "mzpserver"

// tokenTTL is how long a token minted by POST /tokens remains valid.
const tokenTTL = 15 * time.Minute

// mintToken signs a short-lived bearer token for a successful API-key
// exchange. There is no per-user claim to bind it to (the build service has
// one configured API key, not a user table), so the subject is fixed.
func mintToken(secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": tokenIssuer,
		"sub": "build-client",
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// getBearerToken extracts the raw token string from an Authorization:
// Bearer header, matching server/token.go's getJWT.
func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	if !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// validateToken checks a bearer token's signature, issuer, and expiry.
func validateToken(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithLeeway(time.Minute))
	return err
}

// requireAuth is middleware requiring a valid bearer token minted by
// POST /tokens. Unlike the teacher's AuthHandler it has no user lookup to
// do — a valid signature and issuer is the entire authorization model for
// this single-tenant build service.
func requireAuth(secret []byte, unauthDelay time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err == nil {
			err = validateToken(tok, secret)
		}
		if err != nil {
			r := unauthorized("", err.Error())
			time.Sleep(unauthDelay)
			r.writeResponse(w)
			return
		}
		next.ServeHTTP(w, req)
	})
}
