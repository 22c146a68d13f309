package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"io"
)

// Hash represents a cryptographic hash
type Hash string

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for log lines
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Hasher accumulates length-prefixed fields into a sha256 digest so that
// ("ab","c") and ("a","bc") never collide.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates an empty Hasher
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Field writes one field into the digest
func (h *Hasher) Field(s string) *Hasher {
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(s)))
	h.h.Write(prefix[:])
	io.WriteString(h.h, s)
	return h
}

// Sum returns the accumulated hash
func (h *Hasher) Sum() Hash {
	return Hash(hex.EncodeToString(h.h.Sum(nil)))
}
