// Package blob stores attachment and voice-clip bytes outside the snapshot.
// Content is addressed by its SHA-256, so putting the same bytes twice yields
// the same reference.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const refPrefix = "sha256:"

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidRef = errors.New("invalid content reference")
)

// Store is the handle-based content store the task store hands refs out of.
type Store interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Ref returns the content reference for data.
func Ref(data []byte) string {
	sum := sha256.Sum256(data)
	return refPrefix + hex.EncodeToString(sum[:])
}

// digest validates ref and returns its hex part.
func digest(ref string) (string, error) {
	hexPart, ok := strings.CutPrefix(ref, refPrefix)
	if !ok || len(hexPart) != sha256.Size*2 {
		return "", ErrInvalidRef
	}
	if _, err := hex.DecodeString(hexPart); err != nil {
		return "", ErrInvalidRef
	}
	return hexPart, nil
}
