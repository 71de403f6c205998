package model

import (
	"encoding/hex"
	"time"
)

// DigestSize is the length of a content digest in bytes (MD5)
const DigestSize = 16

// Digest is an optional content fingerprint. The zero value means "no digest",
// which is distinct from the digest of empty content.
type Digest struct {
	Sum   [DigestSize]byte
	Valid bool
}

// NewDigest wraps a computed sum
func NewDigest(sum [DigestSize]byte) Digest {
	return Digest{Sum: sum, Valid: true}
}

// DigestFromBytes builds a digest from a persisted byte slice. A nil or
// wrongly sized slice yields an absent digest.
func DigestFromBytes(b []byte) Digest {
	if len(b) != DigestSize {
		return Digest{}
	}
	var d Digest
	copy(d.Sum[:], b)
	d.Valid = true
	return d
}

// Bytes returns the sum as a slice, or nil when absent
func (d Digest) Bytes() []byte {
	if !d.Valid {
		return nil
	}
	b := make([]byte, DigestSize)
	copy(b, d.Sum[:])
	return b
}

// String returns the hex encoded sum, or "-" when absent
func (d Digest) String() string {
	if !d.Valid {
		return "-"
	}
	return hex.EncodeToString(d.Sum[:])
}

// FileIdentity is the cheap (path, mtime, size) triple used as a cache key
type FileIdentity struct {
	Path    string // relative to the snapshot root, slash separated
	ModTime int64  // unix nanoseconds
	Size    int64
}

// Item is a single file recorded in a snapshot
type Item struct {
	Path    string
	ModTime int64 // unix nanoseconds
	Size    int64
	Digest  Digest
}

// NewItem creates an item for the given identity and digest
func NewItem(id FileIdentity, digest Digest) Item {
	return Item{
		Path:    id.Path,
		ModTime: id.ModTime,
		Size:    id.Size,
		Digest:  digest,
	}
}

// Identity returns the cache key for the item
func (i Item) Identity() FileIdentity {
	return FileIdentity{Path: i.Path, ModTime: i.ModTime, Size: i.Size}
}

// Modified returns the modification time as a time.Time
func (i Item) Modified() time.Time {
	return time.Unix(0, i.ModTime)
}
