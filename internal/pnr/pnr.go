// Package pnr generates short human-shareable reservation codes.
//
// The generator does not guarantee uniqueness; the booking store's
// unique index on pnr is the authority, and callers retry on collision.
package pnr

import "math/rand"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 6
)

func Generate() string {
	code := make([]byte, Length)
	for i := range code {
		code[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(code)
}
