package layout

import (
	"fmt"

	"github.com/wcatz/heritage-timeline/internal/catalog"
)

// KeyGenerator produces placement keys of the form "<category>-<index>",
// where index counts every event in the pass.
type KeyGenerator struct {
	n int
}

// NewKeyGenerator creates a new key generator.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{}
}

// Next returns the key for the next event.
func (g *KeyGenerator) Next(c catalog.Category) string {
	k := fmt.Sprintf("%s-%d", c, g.n)
	g.n++
	return k
}
