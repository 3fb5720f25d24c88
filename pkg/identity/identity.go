package identity

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"

	// Anonymous is the user ID recorded when authentication is disabled.
	Anonymous = "anonymous"
)

// Identity represents the caller of a request.
// It combines token claims with request-specific context.
type Identity struct {
	// Token claims
	UserID    string
	Name      string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// FromClaims creates an Identity from verified JWT claims.
// The user ID is the "sub" claim.
func FromClaims(claims jwt.MapClaims) *Identity {
	id := &Identity{}
	id.UserID, _ = claims.GetSubject()
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok {
				id.Roles = append(id.Roles, s)
			}
		}
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		id.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id
}

// NewAnonymous returns the identity used when no token is required.
func NewAnonymous() *Identity {
	return &Identity{UserID: Anonymous}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// HasRole reports whether the token granted role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ClientIP returns the client address as a string, or "" if unknown.
func (i *Identity) ClientIP() string {
	if i.RemoteIP == nil {
		return ""
	}
	return i.RemoteIP.String()
}

// RemoteIP extracts the client IP of a request. The first X-Forwarded-For
// entry wins over RemoteAddr.
func RemoteIP(r *http.Request) net.IP {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// FromRequest returns the identity attached to r, falling back to an
// anonymous identity carrying the request's remote IP.
func FromRequest(r *http.Request) *Identity {
	if id, ok := Get(r.Context()); ok && id != nil {
		return id
	}
	return NewAnonymous().WithRemoteIP(RemoteIP(r))
}
