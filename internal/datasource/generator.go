package datasource

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"sales-dashboard/internal/models"
)

// DefaultProducts is the demo catalog.
var DefaultProducts = []string{
	"Laptop Pro",
	"Monitor 4K",
	"Tablet",
	"Auriculares BT",
	"Cargador Inalámbrico",
}

// GeneratorOptions controls simulated sales. Upper bounds are exclusive.
type GeneratorOptions struct {
	Days      int
	MinPerDay int
	MaxPerDay int
	MinAmount int
	MaxAmount int
	Products  []string
	Seed      uint64
	Now       func() time.Time
}

func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Days:      180,
		MinPerDay: 10,
		MaxPerDay: 30,
		MinAmount: 50,
		MaxAmount: 5000,
		Products:  DefaultProducts,
	}
}

func (o GeneratorOptions) Validate() error {
	if o.Days <= 0 {
		return fmt.Errorf("generator days must be positive, got %d", o.Days)
	}
	if o.MinPerDay < 0 || o.MaxPerDay <= o.MinPerDay {
		return fmt.Errorf("generator per-day range [%d, %d) is empty", o.MinPerDay, o.MaxPerDay)
	}
	if o.MinAmount <= 0 || o.MaxAmount <= o.MinAmount {
		return fmt.Errorf("generator amount range [%d, %d) is invalid", o.MinAmount, o.MaxAmount)
	}
	if len(o.Products) == 0 {
		return fmt.Errorf("generator needs at least one product")
	}
	return nil
}

// Generator simulates a sales history ending today.
type Generator struct {
	opts GeneratorOptions
}

func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Generator{opts: opts}, nil
}

func (g *Generator) Load(ctx context.Context) ([]models.Transaction, error) {
	seed := g.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	start := g.opts.Now().AddDate(0, 0, -g.opts.Days)
	perDaySpan := g.opts.MaxPerDay - g.opts.MinPerDay
	amountSpan := g.opts.MaxAmount - g.opts.MinAmount

	records := make([]models.Transaction, 0, g.opts.Days*(g.opts.MinPerDay+perDaySpan/2))
	for day := range g.opts.Days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := start.AddDate(0, 0, day)
		n := g.opts.MinPerDay + rng.IntN(perDaySpan)
		for range n {
			records = append(records, models.Transaction{
				Date:    date,
				Product: g.opts.Products[rng.IntN(len(g.opts.Products))],
				Amount:  float64(g.opts.MinAmount + rng.IntN(amountSpan)),
			})
		}
	}
	return records, nil
}
