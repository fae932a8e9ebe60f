package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/logger"
	"github.com/angelmondragon/shopgen/pkg/metrics"
)

const sampleCatalog = `{"item_id": "B001", "item_name": [{"language_tag": "fr_FR", "value": "Chaise"}], "brand": "Rivet"}
not json at all

{"item_id": "B002"}
{"item_name": "orphan"}
{"item_id": "B003", "item_name": "Lampe"}
[1, 2, 3]
{"item_id": 17, "item_name": "numeric id"}
{"item_id": "B004", "item_name": "Table", "color": "oak"}
`

func TestLoadSkipsMalformedAndIncomplete(t *testing.T) {
	buf := &bytes.Buffer{}
	loader := NewLoader(logger.New(logger.Options{ServiceName: "test", Output: buf}), nil)

	products, stats, err := loader.Load(context.Background(), strings.NewReader(sampleCatalog), 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ItemID)
	}
	assert.Equal(t, []string{"B001", "B003", "B004"}, ids)
	assert.Equal(t, 3, stats.Loaded)
	assert.Equal(t, 2, stats.Malformed)
	assert.Equal(t, 3, stats.Incomplete)
	assert.Equal(t, 1, stats.Blank)
	assert.False(t, stats.Capped)

	assert.Contains(t, buf.String(), "skipping malformed catalog line 2")
}

func TestLoadStopsAtCap(t *testing.T) {
	loader := NewLoader(nil, nil)

	products, stats, err := loader.Load(context.Background(), strings.NewReader(sampleCatalog), 2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B003", products[1].ItemID)
	assert.True(t, stats.Capped)
	assert.Equal(t, 6, stats.Lines, "reading should stop at the line that reached the cap")
}

func TestLoadLastLineWithoutNewline(t *testing.T) {
	products, _, err := NewLoader(nil, nil).Load(context.Background(), strings.NewReader(`{"item_id":"X","item_name":"Y"}`), 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "X", products[0].ItemID)
}

func TestLoadRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	loader := NewLoader(nil, metrics.NewGenerationMetrics(reg))

	_, _, err := loader.Load(context.Background(), strings.NewReader(sampleCatalog), 0)
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "shopgen_input_lines_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		metrics.LineLoaded:     3,
		metrics.LineMalformed:  2,
		metrics.LineIncomplete: 3,
		metrics.LineBlank:      1,
	}, counts)
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewLoader(nil, nil).Load(ctx, strings.NewReader(sampleCatalog), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFileMissing(t *testing.T) {
	_, _, err := NewLoader(nil, nil).LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"), 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FR.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	products, stats, err := NewLoader(nil, nil).LoadFile(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, 3, stats.Loaded)
}

func TestProductMarshalPreservesPayload(t *testing.T) {
	p, err := ParseProduct([]byte(`{ "item_id": "B001",  "item_name": "Chaise", "dims": {"h": 90} }`))
	require.NoError(t, err)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"item_id":"B001","item_name":"Chaise","dims":{"h":90}}`, string(out))

	var back Product
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, p, back)

	assert.Error(t, json.Unmarshal([]byte(`{"item_name":"x"}`), &back))
}

func TestParseProductRequiresKeysNotValues(t *testing.T) {
	kept := map[string]string{
		`{"item_id": "B010", "item_name": null}`:  "B010",
		`{"item_id": "", "item_name": "Sans id"}`: "",
		`{"item_id": "B011", "item_name": []}`:    "B011",
	}
	for line, wantID := range kept {
		p, err := ParseProduct([]byte(line))
		require.NoError(t, err, line)
		assert.Equal(t, wantID, p.ItemID, line)
	}

	for _, line := range []string{
		`{"item_id": "B012"}`,
		`{"item_name": "orphan"}`,
		`{"item_id": null, "item_name": "null id"}`,
		`{"item_id": 17, "item_name": "numeric id"}`,
		`null`,
	} {
		_, err := ParseProduct([]byte(line))
		assert.ErrorIs(t, err, errIncomplete, line)
	}
}

func TestLoadCountsWhitespaceOnlyLinesAsBlank(t *testing.T) {
	input := "  \t \n{\"item_id\":\"A\",\"item_name\":null}\r\n\n"

	products, stats, err := NewLoader(nil, nil).Load(context.Background(), strings.NewReader(input), 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].ItemID)
	assert.Equal(t, 2, stats.Blank)
	assert.Equal(t, 3, stats.Lines)
}
