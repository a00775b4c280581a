package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// ShoppingGeneratorConfig configures the synthetic orders file
type ShoppingGeneratorConfig struct {
	OrderCount  int       `json:"order_count"`
	MissingRate float64   `json:"missing_rate"` // chance that any single cell is left blank
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seed        int64     `json:"seed"`
}

// DefaultShoppingConfig returns sensible defaults for order generation
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		OrderCount:  200,
		MissingRate: 0.05,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		Seed:        42,
	}
}

// ShoppingHeaders is the column order of generated files.
var ShoppingHeaders = []string{"order_id", "order_date", "category", "channel", "quantity", "amount"}

var (
	shoppingCategories = []string{"electronics", "clothing", "home", "books", "toys"}
	shoppingChannels   = []string{"web", "mobile", "store"}
)

// ShoppingDataGenerator generates a realistic e-commerce orders table. The
// columns cover every chartable kind: order_date is datetime, category and
// channel are categorical, quantity and amount are numeric.
type ShoppingDataGenerator struct {
	config ShoppingGeneratorConfig
	rng    *rand.Rand
}

// NewShoppingDataGenerator creates a new shopping data generator
func NewShoppingDataGenerator(config ShoppingGeneratorConfig) *ShoppingDataGenerator {
	return &ShoppingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRows returns OrderCount rows in ShoppingHeaders order. order_id is
// never blank.
func (g *ShoppingDataGenerator) GenerateRows() [][]string {
	rows := make([][]string, 0, g.config.OrderCount)
	span := g.config.EndDate.Sub(g.config.StartDate)
	for i := 0; i < g.config.OrderCount; i++ {
		placed := g.config.StartDate.Add(time.Duration(g.rng.Int63n(int64(span) + 1)))
		category := shoppingCategories[g.rng.Intn(len(shoppingCategories))]
		quantity := 1 + g.rng.Intn(5)
		// log-normal unit prices keep the amount column right-skewed
		price := math.Round(math.Exp(3+0.6*g.rng.NormFloat64())*100) / 100

		row := []string{
			fmt.Sprintf("ord_%05d", i+1),
			g.maybeBlank(placed.Format("2006-01-02")),
			g.maybeBlank(category),
			g.maybeBlank(shoppingChannels[g.rng.Intn(len(shoppingChannels))]),
			g.maybeBlank(strconv.Itoa(quantity)),
			g.maybeBlank(strconv.FormatFloat(price*float64(quantity), 'f', 2, 64)),
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and generated rows to w.
func (g *ShoppingDataGenerator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ShoppingHeaders); err != nil {
		return err
	}
	for _, row := range g.GenerateRows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *ShoppingDataGenerator) maybeBlank(v string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return v
}
