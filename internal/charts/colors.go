package charts

import (
	"math/rand"
	"sync"

	"csvviz/ports"
)

// Palette is the fixed set of colours charts draw from.
var Palette = []string{"red", "blue", "green", "yellow", "orange", "purple"}

// ColorSource is the colour port as seen by the selector.
type ColorSource = ports.ColorSource

// RandomColors draws from the process-wide generator, which is safe for
// concurrent use.
func RandomColors() ColorSource { return globalSource{} }

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// SeededColors returns a reproducible source that may be shared across goroutines.
func SeededColors(seed int64) ColorSource {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// FixedColor always returns the same palette index.
type FixedColor int

func (f FixedColor) Intn(n int) int { return int(f) % n }

func pickColor(src ColorSource) string {
	return Palette[src.Intn(len(Palette))]
}
