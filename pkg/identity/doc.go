// Package identity describes who is calling the API.
//
// An Identity combines verified JWT claims (subject, name, roles, timestamps)
// with request context (remote IP). When authentication is disabled every
// request carries the anonymous identity, so audit events always have a user.
//
// # Basic Usage
//
//	id := identity.FromClaims(claims).WithRemoteIP(identity.RemoteIP(r))
//	ctx = identity.Set(ctx, id)
//
//	// in a handler
//	caller := identity.FromRequest(r)
package identity
