package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/angelmondragon/shopgen/internal/export"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/logger"
	"github.com/angelmondragon/shopgen/pkg/metrics"
)

// ErrEmptyCatalog is returned when no usable product could be loaded.
var ErrEmptyCatalog = pkgerrors.New(pkgerrors.CodeEmptyCatalog, "catalog is empty")

var errCapReached = errors.New("catalog cap reached")

// Stats summarizes a load.
type Stats struct {
	Lines      int
	Loaded     int
	Malformed  int
	Incomplete int
	Blank      int
	Capped     bool
}

// Loader reads line-delimited product listings.
type Loader struct {
	logg    *logger.Logger
	metrics *metrics.GenerationMetrics
}

// NewLoader builds a Loader. metrics may be nil.
func NewLoader(logg *logger.Logger, m *metrics.GenerationMetrics) *Loader {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Loader{logg: logg, metrics: m}
}

// LoadFile opens path and delegates to Load.
func (l *Loader) LoadFile(ctx context.Context, path string, limit int) ([]Product, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Stats{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "catalog file not found").WithDetails(path)
		}
		return nil, Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open catalog file").WithDetails(path)
	}
	defer f.Close()

	ctx = l.logg.WithField(ctx, "catalog_path", path)
	return l.Load(ctx, f, limit)
}

// Load reads one JSON object per line. Malformed lines are skipped with a
// warning, objects without item_id/item_name are skipped, and reading stops once
// limit products are retained (limit <= 0 means no cap).
func (l *Loader) Load(ctx context.Context, r io.Reader, limit int) ([]Product, Stats, error) {
	var (
		stats    Stats
		products []Product
	)

	err := export.ScanLines(ctx, r, func(lineNo int, line []byte) error {
		stats.Lines = lineNo
		product, ok := l.parseLine(ctx, lineNo, line, &stats)
		if !ok {
			return nil
		}
		products = append(products, product)
		if limit > 0 && len(products) >= limit {
			stats.Capped = true
			return errCapReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errCapReached) {
		return nil, stats, err
	}

	stats.Loaded = len(products)
	l.logg.Info(l.logg.WithFields(ctx, map[string]any{
		"loaded":     stats.Loaded,
		"malformed":  stats.Malformed,
		"incomplete": stats.Incomplete,
		"capped":     stats.Capped,
	}), "catalog loaded")
	return products, stats, nil
}

func (l *Loader) parseLine(ctx context.Context, lineNo int, line []byte, stats *Stats) (Product, bool) {
	if len(line) == 0 {
		stats.Blank++
		l.metrics.IncInputLine(metrics.LineBlank)
		return Product{}, false
	}

	product, err := ParseProduct(line)
	switch {
	case err == nil:
		l.metrics.IncInputLine(metrics.LineLoaded)
		return product, true
	case errors.Is(err, errIncomplete):
		stats.Incomplete++
		l.metrics.IncInputLine(metrics.LineIncomplete)
		l.logg.Debug(l.logg.WithField(ctx, "line", lineNo), "skipping catalog line without item_id/item_name")
		return Product{}, false
	default:
		stats.Malformed++
		l.metrics.IncInputLine(metrics.LineMalformed)
		l.logg.Warn(l.logg.WithFields(ctx, map[string]any{
			"line":  lineNo,
			"error": err.Error(),
		}), fmt.Sprintf("skipping malformed catalog line %d", lineNo))
		return Product{}, false
	}
}
