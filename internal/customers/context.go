package customers

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/angelmondragon/shopgen/pkg/types"
)

const basketIDFormat = "B%06d"

// GenerationContext carries the state shared by every synthesizer during one
// run: the seeded random source, the basket-id counter and the generation
// instant. It is not safe for concurrent use.
type GenerationContext struct {
	faker        *gofakeit.Faker
	now          time.Time
	today        time.Time
	nextBasketID int
}

// NewGenerationContext seeds the random source once. The same seed, instant and
// catalog order reproduce the same output.
func NewGenerationContext(seed int64, now time.Time) *GenerationContext {
	return &GenerationContext{
		faker:        gofakeit.New(seed),
		now:          now,
		today:        types.NewDate(now).Time,
		nextBasketID: 1,
	}
}

func (g *GenerationContext) Faker() *gofakeit.Faker {
	return g.faker
}

// Now is the fixed generation instant.
func (g *GenerationContext) Now() time.Time {
	return g.now
}

// Today is the calendar day of Now at UTC midnight.
func (g *GenerationContext) Today() time.Time {
	return g.today
}

// NextBasketID returns the next identifier from the run-wide counter.
func (g *GenerationContext) NextBasketID() string {
	id := fmt.Sprintf(basketIDFormat, g.nextBasketID)
	g.nextBasketID++
	return id
}

// IntBetween draws uniformly from [lo, hi].
func (g *GenerationContext) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.faker.Rand.Intn(hi-lo+1)
}

// FloatBetween draws uniformly from [lo, hi).
func (g *GenerationContext) FloatBetween(lo, hi float64) float64 {
	return g.faker.Float64Range(lo, hi)
}

// DayBetween draws a calendar day uniformly from [start, end], both inclusive.
func (g *GenerationContext) DayBetween(start, end time.Time) time.Time {
	start = types.NewDate(start).Time
	end = types.NewDate(end).Time
	if !end.After(start) {
		return start
	}
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, g.faker.Rand.Intn(days+1))
}

// YearsBefore returns the calendar day n years before Today. A Feb 29 with no
// counterpart in the target year maps to Feb 28 rather than rolling into March.
func (g *GenerationContext) YearsBefore(n int) time.Time {
	y, m, d := g.today.Date()
	shifted := time.Date(y-n, m, d, 0, 0, 0, 0, time.UTC)
	if shifted.Month() != m {
		shifted = time.Date(y-n, m+1, 0, 0, 0, 0, 0, time.UTC)
	}
	return shifted
}

// Pick returns a uniformly chosen index in [0, n).
func (g *GenerationContext) Pick(n int) int {
	return g.faker.Rand.Intn(n)
}
