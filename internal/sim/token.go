package sim

import "github.com/google/uuid"

// TokenGenerator produces run tokens for result correlation.
// Implemented by UUIDGenerator (production) and testutil.FixedTokenGenerator.
type TokenGenerator interface {
	Generate() string
}

// UUIDGenerator issues UUIDv7 run tokens. v7 tokens sort by creation time,
// which keeps archived runs naturally ordered.
type UUIDGenerator struct{}

// Generate returns a new UUIDv7 string, falling back to v4 if the system
// clock is unusable.
func (UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
