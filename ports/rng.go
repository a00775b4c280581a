package ports

// ColorSource picks palette indexes for chart colours. *rand.Rand satisfies it,
// so a seeded generator makes colour choice reproducible.
type ColorSource interface {
	Intn(n int) int
}
