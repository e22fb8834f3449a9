package service

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordPolicy decides how passwords are stored and compared.
type PasswordPolicy interface {
	Hash(plain string) (string, error)
	Matches(stored, plain string) bool
}

// PlainPasswords stores passwords verbatim and compares them for equality.
// It is the default because existing snapshots and the demo logins rely on
// it; it offers no protection at rest.
type PlainPasswords struct{}

func (PlainPasswords) Hash(plain string) (string, error) {
	return plain, nil
}

func (PlainPasswords) Matches(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// BcryptPasswords hashes on write. Stored values that are not bcrypt hashes
// are still compared verbatim so snapshots written in plain mode keep working.
type BcryptPasswords struct {
	Cost int
}

func (p BcryptPasswords) Hash(plain string) (string, error) {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptPasswords) Matches(stored, plain string) bool {
	if !strings.HasPrefix(stored, "$2") {
		return PlainPasswords{}.Matches(stored, plain)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
