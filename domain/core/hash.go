package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// SnapshotHash identifies the exact input record set an analysis ran over.
// Two runs with equal snapshot hashes saw byte-identical inputs.
type SnapshotHash Hash

func (h SnapshotHash) String() string { return Hash(h).String() }

// ComputeSnapshotHash derives a snapshot identity from already-ordered record
// lines. Callers are responsible for feeding lines in a deterministic order.
func ComputeSnapshotHash(lines []string) SnapshotHash {
	var data strings.Builder
	for _, line := range lines {
		data.WriteString(line)
		data.WriteByte('\n')
	}
	return SnapshotHash(NewHash([]byte(data.String())))
}

// ComputeRunKey combines a cohort filter identity with a snapshot identity
// into a single memoization key.
func ComputeRunKey(filterKey string, snapshot SnapshotHash) string {
	return fmt.Sprintf("%s@%s", filterKey, snapshot)
}
