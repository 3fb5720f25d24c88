package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/identity"
)

const bearerPrefix = "Bearer "

var (
	errMissingAuthorization = errors.New("authorization missing")
	errMalformedHeader      = errors.New("malformed authorization header")
	errTokenExpired         = errors.New("token expired")
	errInvalidToken         = errors.New("invalid token")
	errMissingSubject       = errors.New("token has no subject")
)

// JWTAuthenticator is middleware that validates HS256 bearer tokens.
// With an empty secret every request passes as the anonymous identity.
type JWTAuthenticator struct {
	secret []byte
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret)}
}

// Enabled reports whether tokens are checked
func (j *JWTAuthenticator) Enabled() bool {
	return len(j.secret) > 0
}

// Authenticate verifies an Authorization header value and returns the caller
func (j *JWTAuthenticator) Authenticate(header string) (*identity.Identity, error) {
	if header == "" {
		return nil, errMissingAuthorization
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, errMalformedHeader
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errInvalidToken
	}

	id := identity.FromClaims(claims)
	if id.UserID == "" {
		return nil, errMissingSubject
	}
	return id, nil
}

// Middleware returns an HTTP middleware that attaches the caller identity
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteIP := identity.RemoteIP(r)

		if !j.Enabled() {
			id := identity.NewAnonymous().WithRemoteIP(remoteIP)
			next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
			return
		}

		id, err := j.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			var ip string
			if remoteIP != nil {
				ip = remoteIP.String()
			}
			audit.Log(audit.AuthenticateEvent{ClientIP: ip, ErrorMessage: err.Error()})
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		id.WithRemoteIP(remoteIP)
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}
