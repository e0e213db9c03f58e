package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// #region canonicalize

// Canonicalize renders a context map in a stable form: JSON with keys
// sorted at every level (encoding/json sorts map keys). Two structurally
// equal maps canonicalize identically regardless of insertion order.
func Canonicalize(ctx map[string]any) (string, error) {
	if ctx == nil {
		ctx = map[string]any{}
	}
	b, err := json.Marshal(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}
	return string(b), nil
}

// #endregion canonicalize

// #region fingerprint

// Fingerprint hashes a canonicalized context. Contexts that differ in any
// key or value collide only with SHA-256 probability.
func Fingerprint(ctx map[string]any) (string, error) {
	canonical, err := Canonicalize(ctx)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:16], nil
}

// #endregion fingerprint
