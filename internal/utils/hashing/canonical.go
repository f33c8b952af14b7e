package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON serializes v to a stable, key-sorted, whitespace-free
// encoding. encoding/json sorts map keys, which gives the stability the
// audit chain and snapshot keys rely on; struct inputs must keep a fixed
// field order instead.
func CanonicalJSON(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical serialization failed: %w", err)
	}
	return body, nil
}

// ChainHash computes the audit chain digest for a payload appended after
// prevHash (empty for the genesis entry).
func ChainHash(prevHash string, payload map[string]any) (string, error) {
	body, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(prevHash), body...))
	return hex.EncodeToString(sum[:]), nil
}

// ParamsHash computes the deterministic key of a report snapshot from its
// generation parameters.
func ParamsHash(params any) (string, error) {
	body, err := CanonicalJSON(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
