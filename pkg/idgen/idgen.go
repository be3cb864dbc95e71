// Package idgen produces Swish payment request identifiers.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
)

const idBytesLength = 16

// Generator renders 128 random bits as 32 uppercase hex characters.
type Generator struct {
	mu  sync.Mutex
	src io.Reader
}

// New returns a generator reading from src, or from crypto/rand when src is nil.
func New(src io.Reader) *Generator {
	if src == nil {
		src = rand.Reader
	}

	return &Generator{src: src}
}

func (g *Generator) Next() (string, error) {
	b := make([]byte, idBytesLength)

	g.mu.Lock()
	_, err := io.ReadFull(g.src, b)
	g.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(b)), nil
}
