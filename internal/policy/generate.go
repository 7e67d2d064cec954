package policy

import (
	"crypto/rand"
	"math/big"

	"github.com/rs/zerolog/log"
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*-_=+?"
)

// Generate returns a random password of the given length satisfying the
// policy. Each required character class contributes at least one character;
// the remainder is drawn from the union of all classes.
func (c *Checker) Generate(length int) string {
	if length < c.cfg.MinLength {
		length = c.cfg.MinLength
	}

	var required []string

	if c.cfg.RequireUpper {
		required = append(required, upperChars)
	}

	if c.cfg.RequireLower {
		required = append(required, lowerChars)
	}

	if c.cfg.RequireDigit {
		required = append(required, digitChars)
	}

	if c.cfg.RequireSymbol {
		required = append(required, symbolChars)
	}

	if length < len(required) {
		length = len(required)
	}

	all := upperChars + lowerChars + digitChars + symbolChars

	out := make([]byte, 0, length)
	for _, class := range required {
		out = append(out, class[randInt(len(class))])
	}

	for len(out) < length {
		out = append(out, all[randInt(len(all))])
	}

	// Fisher-Yates so the required-class characters are not predictable
	// by position.
	for i := len(out) - 1; i > 0; i-- {
		j := randInt(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}

// randInt returns a uniform random int in [0, n) from crypto/rand.
func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand never fails on supported platforms
		log.Fatal().Msgf("failed to read random bytes: %v", err)
	}

	return int(v.Int64())
}
