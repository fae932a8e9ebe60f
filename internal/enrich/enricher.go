package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shopgen/internal/export"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/logger"
	"github.com/angelmondragon/shopgen/pkg/metrics"
	"github.com/angelmondragon/shopgen/pkg/types"
)

const (
	FieldSKU         = "sku"
	FieldQuantity    = "quantity"
	FieldPrice       = "price"
	FieldRating      = "rating"
	FieldReview      = "review"
	FieldDateUpdated = "date_updated"

	unknownSKU = "UNKNOWN"

	minQuantity = 1
	maxQuantity = 100
	minPrice    = 10.0
	maxPrice    = 500.0
	minRating   = 1.0
	maxRating   = 5.0
)

// Reviews are the canned review texts assigned to listings.
var Reviews = []string{
	"Excellent quality product!",
	"Pretty good value for money.",
	"Not bad, does the job.",
	"Could be better, average experience.",
	"Loved it, would buy again!",
}

// Stats summarises one enrichment pass.
type Stats struct {
	Enriched  int
	Malformed int
}

// Params wires an Enricher. A zero Seed seeds from the clock.
type Params struct {
	Seed    int64
	Now     func() time.Time
	Logger  *logger.Logger
	Metrics *metrics.GenerationMetrics
}

// Enricher annotates product listings with random commerce fields.
type Enricher struct {
	faker   *gofakeit.Faker
	now     func() time.Time
	logg    *logger.Logger
	metrics *metrics.GenerationMetrics
}

func New(params Params) *Enricher {
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Enricher{
		faker:   gofakeit.New(seed),
		now:     now,
		logg:    logg,
		metrics: params.Metrics,
	}
}

// Enrich adds the commerce fields to l. An existing field of the same name is
// overwritten in place.
func (e *Enricher) Enrich(l *Listing) error {
	sku, ok := l.Get("item_id")
	if !ok {
		sku, _ = json.Marshal(unknownSKU)
	}
	l.Set(FieldSKU, sku)

	values := []struct {
		key   string
		value any
	}{
		{FieldQuantity, e.faker.Number(minQuantity, maxQuantity)},
		{FieldPrice, types.DecimalFromFloat(e.faker.Float64Range(minPrice, maxPrice), 2)},
		{FieldRating, types.DecimalFromFloat(e.faker.Float64Range(minRating, maxRating), 1)},
		{FieldReview, e.faker.RandomString(Reviews)},
		{FieldDateUpdated, e.now().Format(time.RFC3339)},
	}
	for _, v := range values {
		if err := l.SetValue(v.key, v.value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "enrich listing")
		}
	}
	return nil
}

// Run enriches every listing read from r and writes one line per listing to w.
// Blank lines are ignored; lines that are not JSON objects are skipped with a
// warning.
func (e *Enricher) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	out := export.NewLineWriter(w)
	err := export.ReadLines(ctx, r, func(lineNo int, line []byte) error {
		listing, err := ParseListing(line)
		if err != nil {
			stats.Malformed++
			e.metrics.IncInputLine(metrics.LineMalformed)
			e.logg.Warn(e.logg.WithFields(ctx, map[string]any{
				"line":  lineNo,
				"error": err.Error(),
			}), "skipping malformed listing")
			return nil
		}
		e.metrics.IncInputLine(metrics.LineLoaded)
		if err := e.Enrich(listing); err != nil {
			return err
		}
		if err := out.Write(listing); err != nil {
			return err
		}
		stats.Enriched++
		e.metrics.AddLineItems(1)
		return nil
	})
	return stats, err
}

// RunFile enriches inputPath into outputPath. The output is replaced only when
// the whole input was processed.
func (e *Enricher) RunFile(ctx context.Context, inputPath, outputPath string) (stats Stats, err error) {
	in, err := os.Open(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stats{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("listings file %s does not exist", inputPath))
		}
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("open listings file %s", inputPath))
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	err = export.WriteFile(outputPath, func(w io.Writer) error {
		var runErr error
		stats, runErr = e.Run(ctx, in, w)
		return runErr
	})
	if err != nil {
		return stats, err
	}

	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"input":     inputPath,
		"output":    outputPath,
		"enriched":  stats.Enriched,
		"malformed": stats.Malformed,
	}), "listings enriched")
	return stats, nil
}
