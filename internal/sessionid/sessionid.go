// Package sessionid generates table session identifiers: UUIDv7 values
// rendered as 26 lowercase Crockford base32 characters, so IDs sort by
// creation time.
package sessionid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

// Crockford's base32, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an ID
const Length = 26

// RandSource allows deterministic IDs in tests
type RandSource interface {
	IntN(n int) int
}

// Generator creates session IDs
type Generator struct {
	rand  RandSource
	clock quartz.Clock
}

// NewGenerator creates a generator. A nil RandSource uses crypto/rand and a
// nil clock uses the real clock.
func NewGenerator(rand RandSource, clock quartz.Clock) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{rand: rand, clock: clock}
}

// New returns an ID from crypto/rand and the wall clock
func New() string {
	return NewGenerator(nil, nil).New()
}

// New returns the next ID
func (g *Generator) New() string {
	return encode(g.uuidV7())
}

func (g *Generator) uuidV7() [16]byte {
	var id [16]byte

	// 48-bit millisecond timestamp, then random bits
	ms := uint64(g.clock.Now().UnixMilli())
	binary.BigEndian.PutUint64(id[:8], ms<<16)

	if g.rand != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rand.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10
	return id
}

// encode renders the 128 bits as 26 five-bit groups, most significant
// first. The leading group only carries 3 bits so it is always 0-7.
func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Validate checks that id has the right length and alphabet
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
