package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Kind identifies which backend serves an access.
type Kind string

const (
	KindFileHandle Kind = "FILE_HANDLE"
	KindFallback   Kind = "FALLBACK"
)

// Backend is the storage contract shared by the file and key-value variants.
type Backend interface {
	Kind() Kind

	// Read returns the stored document, or nil when nothing is stored yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error
}

// Revision identifies one stored version of the aggregate.
type Revision string

const domainAggregate = "tutorbook/aggregate/v1"

// RevisionOf hashes stored bytes with domain separation. Nothing stored
// yields the empty revision.
func RevisionOf(data []byte) Revision {
	if len(data) == 0 {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(domainAggregate))
	h.Write([]byte{0x00})
	h.Write(data)
	return Revision(hex.EncodeToString(h.Sum(nil)))
}
