package customers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopgen/internal/catalog"
	"github.com/angelmondragon/shopgen/pkg/security"
	"github.com/angelmondragon/shopgen/pkg/types"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

// plainEncryptor is a deterministic stand-in for the field cipher.
type plainEncryptor struct{}

func (plainEncryptor) Encrypt(plaintext string) (string, error) {
	return "enc(" + plaintext + ")", nil
}

func decryptPlain(t *testing.T, token string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(token, "enc(") && strings.HasSuffix(token, ")"), "not a stub token: %q", token)
	return strings.TrimSuffix(strings.TrimPrefix(token, "enc("), ")")
}

type failingEncryptor struct{}

func (failingEncryptor) Encrypt(string) (string, error) {
	return "", errors.New("cipher offline")
}

func makeCatalog(n int) []catalog.Product {
	products := make([]catalog.Product, 0, n)
	for i := 0; i < n; i++ {
		p, err := catalog.ParseProduct(fmt.Appendf(nil,
			`{"item_id":"P%03d","item_name":[{"language_tag":"fr_FR","value":"Produit %d"}],"brand":"Maison"}`, i, i))
		if err != nil {
			panic(err)
		}
		products = append(products, p)
	}
	return products
}

func newTestGenerator(t *testing.T, seed int64, enc Encryptor, opts Options) *Generator {
	t.Helper()
	gen, err := NewGenerator(GeneratorParams{
		Context:   NewGenerationContext(seed, fixedNow),
		Encryptor: enc,
		Options:   opts,
	})
	require.NoError(t, err)
	return gen
}

func newFieldCipher(t *testing.T) *security.FieldCipher {
	t.Helper()
	key, err := security.GetOrCreateKey(filepath.Join(t.TempDir(), "field.key"))
	require.NoError(t, err)
	c, err := security.NewFieldCipher(key)
	require.NoError(t, err)
	return c
}

func ageOn(birthday, day types.Date) int {
	years := day.Year() - birthday.Year()
	if day.Month() < birthday.Month() || (day.Month() == birthday.Month() && day.Day() < birthday.Day()) {
		years--
	}
	return years
}
