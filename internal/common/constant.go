package common

// TokenTypeBearer is the token_type reported to clients on login.
const TokenTypeBearer = "bearer"

// AuthorizationHeaderName carries the bearer token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "
