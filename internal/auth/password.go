package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters per current OWASP guidance. Verification reads
// the costs back out of the stored hash, so these can be raised later
// without invalidating existing credentials.
const (
	hashIterations  uint32 = 3
	hashMemoryKiB   uint32 = 64 * 1024
	hashParallelism uint8  = 1
	hashKeyBytes    uint32 = 32
	hashSaltBytes          = 16
)

// phcFieldCount is the number of $-delimited fields in an Argon2id PHC
// string: $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>
const phcFieldCount = 6

var errMalformedHash = errors.New("auth: malformed password hash")

// HashPassword derives an Argon2id hash of the password with a fresh random
// salt and returns it as a PHC-format string.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, hashIterations, hashMemoryKiB, hashParallelism, hashKeyBytes)

	b64 := base64.RawStdEncoding
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, hashMemoryKiB, hashIterations, hashParallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key))

	return encoded, nil
}

// VerifyPassword reports whether the password matches the stored PHC hash.
// The comparison is constant time. A malformed stored hash is an error, not
// a mismatch, so corruption is distinguishable from a bad credential.
func VerifyPassword(password, stored string) (bool, error) {
	fields := strings.Split(stored, "$")
	if len(fields) != phcFieldCount || fields[1] != "argon2id" {
		return false, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: bad version field", errMalformedHash)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("%w: bad cost field", errMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt encoding", errMalformedHash)
	}
	want, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return false, fmt.Errorf("%w: bad hash encoding", errMalformedHash)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want))) //nolint:gosec // G115: hash length always fits uint32

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
