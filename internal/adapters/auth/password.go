package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"clubdirectory/internal/domain"
)

// DefaultPinCost is the bcrypt cost used for login PINs.
const DefaultPinCost = 10

type pinHasher struct {
	cost int
}

// NewPinHasher returns a PinHasher that bcrypts SHA-256(salt + pin).
// PINs are short, so the per-user salt is what keeps equal PINs from sharing a hash.
func NewPinHasher(cost int) domain.PinHasher {
	if cost < bcrypt.MinCost {
		cost = DefaultPinCost
	}
	return &pinHasher{cost: cost}
}

func (h *pinHasher) GenerateSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (h *pinHasher) Hash(salt, pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(saltedDigest(salt, pin), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

func (h *pinHasher) Compare(hash, salt, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), saltedDigest(salt, pin)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func saltedDigest(salt, pin string) []byte {
	sum := sha256.Sum256([]byte(salt + pin))
	return []byte(hex.EncodeToString(sum[:]))
}
