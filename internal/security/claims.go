package security

import "time"

// TokenClaims is the verified view of an access token. Subject carries the
// user id; Issuer and Audience are fixed process-wide.
type TokenClaims struct {
	Subject  string
	Issuer   string
	Audience string
	Exp      time.Time
}
