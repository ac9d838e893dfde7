package shortcode

import (
	"fmt"
	"strings"

	nanoid "github.com/jaevor/go-nanoid"
)

// Alphabet is the set of characters short codes are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces random short codes. Codes are not guaranteed to be unique;
// callers must check them against the store.
type Generator interface {
	Generate(length int) (string, error)
}

// MaxLength bounds codes accepted from clients; generated codes are far shorter.
const MaxLength = 32

// Valid reports whether code could have been produced by a Generator.
func Valid(code string) bool {
	if code == "" || len(code) > MaxLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(Alphabet, c) {
			return false
		}
	}
	return true
}

type randomGenerator struct{}

// NewGenerator returns a Generator backed by crypto/rand, drawing each character
// uniformly from Alphabet.
func NewGenerator() Generator {
	return randomGenerator{}
}

// Generate returns a code of the given length
func (randomGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid short code length %d", length)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return "", fmt.Errorf("failed to create code generator: %w", err)
	}
	return gen(), nil
}
