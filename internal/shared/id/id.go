// Package id provides identifier generation for the browser core.
//
// Tab IDs are prefixed ULIDs:
//   - Never reused: a closed tab's ID cannot come back, so a late fetch
//     result can never be mistaken for a newer tab
//   - K-sortable: listing by ID lists tabs in creation order
//   - Debuggable: the "tab_" prefix makes logs readable
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/oklog/ulid/v2"
)

// TabPrefix is prepended to every tab ID
const TabPrefix = "tab"

// Generator generates monotonic ULIDs
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with monotonic entropy so IDs minted in
// the same millisecond still sort in creation order
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTab generates a tab ID from this generator
func (g *Generator) NewTab() types.TabID {
	return types.TabID(g.GenerateWithPrefix(TabPrefix))
}

// NewTabID generates a tab ID from the default generator
func NewTabID() types.TabID {
	return Default().NewTab()
}

// IsValidTabID checks the prefix and ULID part of a tab ID
func IsValidTabID(tab string) bool {
	prefix, rest, ok := strings.Cut(tab, "_")
	if !ok || prefix != TabPrefix {
		return false
	}
	_, err := ulid.Parse(rest)
	return err == nil
}

// Timestamp extracts the creation time from a tab ID
func Timestamp(tab types.TabID) (time.Time, error) {
	_, rest, ok := strings.Cut(string(tab), "_")
	if !ok {
		return time.Time{}, fmt.Errorf("malformed tab id %q", tab)
	}
	parsed, err := ulid.Parse(rest)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
