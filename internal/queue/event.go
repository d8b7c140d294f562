// Package queue defines the message payloads exchanged over the broker
// and the publisher/consumer pair for magic-link mail delivery.
package queue

// MagicLinkIssuedEvent is published when a passwordless login token is
// minted. The mailer consumer turns it into an email; the auth flow
// never waits on delivery.
type MagicLinkIssuedEvent struct {
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	IssuedAt  string `json:"issued_at"`
}
