// Package hasher computes content digests by streaming files in bounded chunks.
package hasher

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lumipallolabs/reporter/internal/model"
)

// ChunkSize bounds the memory used per file being hashed
const ChunkSize = 4 * 1024 * 1024

// Digester computes the content digest of a file
type Digester interface {
	Digest(ctx context.Context, path string) (model.Digest, error)
}

// MD5 streams files through an MD5 accumulator
type MD5 struct {
	chunkSize int
	buffers   sync.Pool
}

// New creates an MD5 digester reading ChunkSize bytes at a time
func New() *MD5 {
	return newWithChunkSize(ChunkSize)
}

func newWithChunkSize(size int) *MD5 {
	h := &MD5{chunkSize: size}
	h.buffers.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return h
}

// Digest hashes the file at path. Read failures are returned as is; there are
// no retries.
func (h *MD5) Digest(ctx context.Context, path string) (model.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Digest{}, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	bufPtr := h.buffers.Get().(*[]byte)
	defer h.buffers.Put(bufPtr)
	buf := *bufPtr

	sum := md5.New()
	for {
		if err := ctx.Err(); err != nil {
			return model.Digest{}, err
		}

		n, err := file.Read(buf)
		if n > 0 {
			sum.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Digest{}, fmt.Errorf("read: %w", err)
		}
	}

	var out [model.DigestSize]byte
	copy(out[:], sum.Sum(nil))
	return model.NewDigest(out), nil
}

// Ensure MD5 implements Digester
var _ Digester = (*MD5)(nil)
