// Package testkit generates deterministic synthetic datasets for tests.
package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

// RetailGeneratorConfig configures the retail transaction generator.
type RetailGeneratorConfig struct {
	TransactionCount int
	MaxBasketSize    int
	StartDate        time.Time
	Seed             int64
}

// DefaultRetailConfig returns sensible defaults for retail data generation.
func DefaultRetailConfig() RetailGeneratorConfig {
	return RetailGeneratorConfig{
		TransactionCount: 200,
		MaxBasketSize:    4,
		StartDate:        time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		Seed:             42,
	}
}

// retailProducts are the catalog items, ordered by popularity weight below.
var retailProducts = []string{"Coffee", "Pastry", "Sandwich", "Juice", "Salad", "Cookie"}

// productWeights bias the draw so Coffee dominates and Coffee+Pastry baskets
// are common enough to surface as an association.
var productWeights = []float64{0.35, 0.25, 0.15, 0.10, 0.10, 0.05}

// RetailDataGenerator produces a transaction table with a product column, a
// transaction id column, a purchase timestamp, and a numeric amount.
type RetailDataGenerator struct {
	config RetailGeneratorConfig
	rng    *rand.Rand
}

// NewRetailDataGenerator creates a seeded retail data generator.
func NewRetailDataGenerator(config RetailGeneratorConfig) *RetailDataGenerator {
	return &RetailDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTable builds the full synthetic table. Identical configs always
// yield identical tables.
func (g *RetailDataGenerator) GenerateTable() *dataset.Table {
	table := dataset.NewTable([]core.ColumnKey{"transaction_id", "product", "purchase_time", "amount"})

	at := g.config.StartDate
	for i := 0; i < g.config.TransactionCount; i++ {
		txnID := fmt.Sprintf("TXN%04d", i+1)
		basket := g.generateBasket()
		for _, product := range basket {
			table.AppendRow(dataset.Row{
				dataset.NewStringCell(txnID),
				dataset.NewStringCell(product),
				dataset.NewStringCell(at.Format("02-01-2006 15:04")),
				dataset.NewNumberCell(g.priceFor(product)),
			})
		}
		// Transactions arrive 6-40 minutes apart during business hours.
		at = at.Add(time.Duration(6+g.rng.Intn(35)) * time.Minute)
		if at.Hour() >= 18 {
			at = at.AddDate(0, 0, 1)
			at = time.Date(at.Year(), at.Month(), at.Day(), 8, at.Minute(), 0, 0, time.UTC)
		}
	}
	return table
}

func (g *RetailDataGenerator) generateBasket() []string {
	size := 1 + g.rng.Intn(g.config.MaxBasketSize)
	basket := make([]string, 0, size)
	for len(basket) < size {
		product := g.drawProduct()
		// Pastry rides along with Coffee half the time.
		if product == "Coffee" && len(basket)+1 < size && g.rng.Float64() < 0.5 {
			basket = append(basket, product, "Pastry")
			continue
		}
		basket = append(basket, product)
	}
	return basket
}

func (g *RetailDataGenerator) drawProduct() string {
	roll := g.rng.Float64()
	cumulative := 0.0
	for i, w := range productWeights {
		cumulative += w
		if roll < cumulative {
			return retailProducts[i]
		}
	}
	return retailProducts[len(retailProducts)-1]
}

func (g *RetailDataGenerator) priceFor(product string) float64 {
	base := map[string]float64{
		"Coffee":   4.5,
		"Pastry":   3.0,
		"Sandwich": 8.5,
		"Juice":    5.0,
		"Salad":    9.5,
		"Cookie":   2.5,
	}[product]
	// Small deterministic jitter keeps the column non-constant.
	return base + float64(g.rng.Intn(100))/100
}
