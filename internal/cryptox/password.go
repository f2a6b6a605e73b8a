// Package cryptox holds the credential hasher: one-way, salted, deliberately
// slow password hashing built on bcrypt.
package cryptox

import (
	"crypto/rand"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
	// burn is a hash of a random string at the same cost, compared against
	// when there is no real hash to check.
	burn []byte
}

// NewHasher returns a Hasher; cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	burn, err := bcrypt.GenerateFromPassword([]byte(rand.Text()), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt burn hash: %v", err))
	}
	return Hasher{cost: cost, burn: burn}
}

// Cost reports the bcrypt cost in use.
func (h Hasher) Cost() int { return h.cost }

// Hash returns the encoded bcrypt hash (salt included) of plain.
func (h Hasher) Hash(plain string) (string, error) {
	return HashPassword(plain, h.cost)
}

// Verify reports whether plain matches hash.
func (h Hasher) Verify(plain, hash string) bool {
	return VerifyPassword(plain, hash)
}

// Burn spends one verification worth of CPU. Login calls it when the user
// does not exist so both failure paths take comparable time.
func (h Hasher) Burn(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.burn, []byte(plain))
}

// HashPassword hashes plain with the given bcrypt cost.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", common.Validation("password cannot be empty", map[string]string{"password": "is required"})
	}
	if len(plain) > maxPasswordBytes {
		return "", common.Validation("password is too long", map[string]string{"password": fmt.Sprintf("must not exceed %d bytes", maxPasswordBytes)})
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// VerifyPassword never fails loudly: malformed or foreign hashes simply do
// not match.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
