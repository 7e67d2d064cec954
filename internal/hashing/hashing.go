// Package hashing implements the one-way credential hashing primitive.
//
// Credentials are hashed with Argon2id and a fresh random salt per call, so
// two digests of the same plaintext never compare equal. Work factors are
// taken from the configuration and fall back to the library defaults.
package hashing

import (
	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"

	"github.com/authvault/authvault/internal/config"
)

// Hasher hashes and verifies credentials.
type Hasher struct {
	params *argon2id.Params
}

// New creates a Hasher from the configured work factors.
// Zero values fall back to argon2id.DefaultParams.
func New(cfg config.Hash) *Hasher {
	params := *argon2id.DefaultParams

	if cfg.Memory > 0 {
		params.Memory = cfg.Memory
	}

	if cfg.Iterations > 0 {
		params.Iterations = cfg.Iterations
	}

	if cfg.Parallelism > 0 {
		params.Parallelism = cfg.Parallelism
	}

	if cfg.SaltLength > 0 {
		params.SaltLength = cfg.SaltLength
	}

	if cfg.KeyLength > 0 {
		params.KeyLength = cfg.KeyLength
	}

	return &Hasher{params: &params}
}

// Hash hashes a plaintext credential using the Argon2id algorithm.
func (h *Hasher) Hash(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext, h.params) //nolint:wrapcheck
}

// Verify verifies a plaintext credential against a stored digest.
// It uses constant-time comparison to prevent timing attacks.
// A malformed digest is reported as a mismatch, never as an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
	if err != nil {
		log.Error().Msgf("failed to verify credential: %v", err)
		return false
	}

	return match
}
