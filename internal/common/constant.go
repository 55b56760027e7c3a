// Package common contains shared constants and sentinel errors used across
// the accounts service. Callers should use errors.Is to match error values.
package common

// AuthorizationHeader carries the end-user bearer access token.
const AuthorizationHeader = "Authorization"

// BearerScheme is the expected Authorization scheme prefix.
const BearerScheme = "Bearer"

// ServiceTokenHeader carries the shared secret asserted by sibling services
// on machine-to-machine calls.
const ServiceTokenHeader = "X-Service-Token"

// ServiceSubject is the access-token subject attached to trusted machine callers.
const ServiceSubject = "SERVICE"
