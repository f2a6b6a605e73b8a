// Package common contains shared constants and error kinds used across
// blogkeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside the Authorization header.
const BearerScheme = "Bearer"

// TokenType is reported to clients next to an issued access token.
const TokenType = "bearer"
