package customers

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopgen/internal/catalog"
	"github.com/angelmondragon/shopgen/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/metrics"
	"github.com/angelmondragon/shopgen/pkg/types"
)

var basketIDPattern = regexp.MustCompile(`^B\d{6}$`)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.MaxBaskets = 8
	return opts
}

func TestGenerateBasketInvariants(t *testing.T) {
	gen := newTestGenerator(t, 42, plainEncryptor{}, smallOptions())
	products := makeCatalog(40)

	customers, err := gen.Generate(context.Background(), 25, products)
	require.NoError(t, err)
	require.Len(t, customers, 25)

	today := types.NewDate(fixedNow)
	yearStart := today.AddDate(0, 0, 1-today.YearDay())
	seenStatus := map[enums.BasketStatus]int{}
	var ids []int

	for _, c := range customers {
		for _, group := range []struct {
			name    string
			baskets []Basket
		}{{"baskets", c.Baskets}, {"wishlist", c.Wishlist}} {
			prev := -1
			for _, b := range group.baskets {
				seenStatus[b.Status]++
				require.Regexp(t, basketIDPattern, b.ID)
				n, err := strconv.Atoi(b.ID[1:])
				require.NoError(t, err)
				assert.Greater(t, n, prev, "ids must increase within %s", group.name)
				prev = n
				ids = append(ids, n)

				if group.name == "wishlist" {
					assert.Equal(t, enums.BasketStatusSaved, b.Status)
				} else {
					assert.NotEqual(t, enums.BasketStatusSaved, b.Status)
				}

				assert.False(t, b.Date.After(today.Time))
				assert.False(t, b.Date.Before(today.AddDate(0, 0, -basketWindow)))

				require.NotEmpty(t, b.Items)
				assert.LessOrEqual(t, len(b.Items), smallOptions().MaxProducts)
				skus := map[string]bool{}
				sum := decimal.Zero
				for _, item := range b.Items {
					assert.False(t, skus[item.SKU], "duplicate sku %s in basket %s", item.SKU, b.ID)
					skus[item.SKU] = true
					assert.Equal(t, item.SKU, item.FullProduct.ItemID)
					assert.GreaterOrEqual(t, item.Quantity, 1)
					assert.LessOrEqual(t, item.Quantity, 5)
					assert.True(t, item.Price.GreaterThanOrEqual(decimal.NewFromInt(5)) && item.Price.LessThanOrEqual(decimal.NewFromInt(200)), "price %s", item.Price)
					assert.True(t, item.Price.Equal(item.Price.Round(2)))
					assert.True(t, item.Rating.GreaterThanOrEqual(decimal.NewFromInt(1)) && item.Rating.LessThanOrEqual(decimal.NewFromInt(5)), "rating %s", item.Rating)
					assert.True(t, item.Rating.Equal(item.Rating.Round(1)))
					assert.NotEmpty(t, item.Review)
					assert.False(t, item.DateUpdated.Before(yearStart))
					assert.False(t, item.DateUpdated.After(today.Time))
					sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
				}

				assert.True(t, b.TotalPrice.Equal(sum.Round(2)), "total %s != %s", b.TotalPrice, sum.Round(2))
				assert.True(t, b.FinalPrice.Equal(b.TotalPrice.Sub(b.DiscountApplied.Decimal).Round(2)))

				if b.IsBought() {
					assert.True(t, b.DiscountApplied.IsPositive(), "bought basket %s without discount", b.ID)
					lo := b.TotalPrice.Mul(decimal.NewFromFloat(minDiscountRate)).Round(2)
					hi := b.TotalPrice.Mul(decimal.NewFromFloat(maxDiscountRate)).Round(2)
					assert.True(t, b.DiscountApplied.GreaterThanOrEqual(lo) && b.DiscountApplied.LessThanOrEqual(hi), "discount %s outside [%s,%s]", b.DiscountApplied, lo, hi)
					require.NotNil(t, b.CheckoutTimestamp)
					assert.True(t, b.CheckoutTimestamp.Equal(fixedNow))
					require.NotNil(t, b.ShippingStatus)
					assert.True(t, b.ShippingStatus.IsValid())
					require.NotNil(t, b.TrackingNumber)
					assert.Equal(t, 4, int(b.TrackingNumber.Version()))
				} else {
					assert.True(t, b.DiscountApplied.IsZero())
					assert.True(t, b.FinalPrice.Equal(b.TotalPrice.Decimal))
					assert.Nil(t, b.CheckoutTimestamp)
					assert.Nil(t, b.ShippingStatus)
					assert.Nil(t, b.TrackingNumber)
				}
			}
		}
	}

	sort.Ints(ids)
	for i, id := range ids {
		require.Equal(t, i+1, id, "basket ids must be unique and assigned contiguously from 1")
	}
	for _, status := range enums.BasketStatuses() {
		assert.Positive(t, seenStatus[status], "expected at least one %s basket", status)
	}
}

func TestGenerateCustomerInvariants(t *testing.T) {
	cipher := newFieldCipher(t)
	gen := newTestGenerator(t, 7, cipher, smallOptions())

	customers, err := gen.Generate(context.Background(), 30, makeCatalog(20))
	require.NoError(t, err)

	today := types.NewDate(fixedNow)
	digits := regexp.MustCompile(`^\d{3}$`)
	for i, c := range customers {
		assert.Equal(t, i, c.ID)
		assert.Equal(t, "FR", c.Country)
		assert.NotEmpty(t, c.CustomerName)
		assert.Contains(t, c.Email, "@")
		assert.NotEmpty(t, c.PhoneNumber)

		first := strings.ToLower(strings.Fields(c.CustomerName)[0])
		local := strings.SplitN(c.Email, "@", 2)[0]
		require.True(t, strings.HasPrefix(c.Username, first), "username %q does not start with %q", c.Username, first)
		require.True(t, strings.HasSuffix(c.Username, "_"+local), "username %q does not end with %q", c.Username, local)
		middle := strings.TrimSuffix(strings.TrimPrefix(c.Username, first), "_"+local)
		assert.Regexp(t, digits, middle)

		password, err := cipher.Decrypt(c.EncryptedPassword)
		require.NoError(t, err)
		assert.Len(t, password, 12)

		assert.False(t, c.AccountCreationDate.Before(today.AddDate(-5, 0, 0)))
		assert.False(t, c.AccountCreationDate.After(today.AddDate(-1, 0, 0)))
		assert.False(t, c.LastLogin.Before(c.AccountCreationDate.Time))
		assert.False(t, c.LastLogin.After(today.Time))
		age := ageOn(c.Birthday, today)
		assert.GreaterOrEqual(t, age, 18)
		assert.LessOrEqual(t, age, 80)

		assert.True(t, c.CustomerTier.IsValid())

		require.GreaterOrEqual(t, len(c.Languages), 1)
		require.LessOrEqual(t, len(c.Languages), 2)
		if len(c.Languages) == 2 {
			assert.NotEqual(t, c.Languages[0], c.Languages[1])
		}
		for _, lang := range c.Languages {
			assert.True(t, lang.IsValid())
		}

		assert.NotEmpty(t, c.Address)
		assert.NotEmpty(t, c.ShippingAddress)
		assert.NotEmpty(t, c.BillingAddress)

		for _, field := range []string{c.CreditCard.CardType, c.CreditCard.CardholderName, c.CreditCard.CardNumber, c.CreditCard.Expiration, c.CreditCard.CVC} {
			plain, err := cipher.Decrypt(field)
			require.NoError(t, err)
			assert.NotEmpty(t, plain)
		}
		assert.NotNil(t, c.Baskets)
		assert.NotNil(t, c.Wishlist)
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	products := makeCatalog(25)
	run := func(seed int64) []byte {
		customers, err := newTestGenerator(t, seed, plainEncryptor{}, smallOptions()).Generate(context.Background(), 10, products)
		require.NoError(t, err)
		out, err := json.Marshal(customers)
		require.NoError(t, err)
		return out
	}

	first := run(42)
	assert.Equal(t, string(first), string(run(42)))
	assert.NotEqual(t, string(first), string(run(43)))
}

func TestGenerateInsufficientPopulation(t *testing.T) {
	opts := DefaultOptions()
	opts.MinBaskets, opts.MaxBaskets = 10, 10
	gen := newTestGenerator(t, 42, plainEncryptor{}, opts)

	_, err := gen.Generate(context.Background(), 5, makeCatalog(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientPopulation), "expected insufficient population, got %v", err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 3, details["available"])
	assert.Greater(t, details["requested"], 3)
}

func TestGenerateRejectsCatalogSmallerThanMinimum(t *testing.T) {
	opts := DefaultOptions()
	opts.MinProducts, opts.MaxProducts = 4, 4
	gen := newTestGenerator(t, 42, plainEncryptor{}, opts)

	_, err := gen.Generate(context.Background(), 1, makeCatalog(3))
	assert.Equal(t, pkgerrors.CodeInsufficientPopulation, pkgerrors.CodeOf(err))
}

func TestGenerateEmptyCatalog(t *testing.T) {
	gen := newTestGenerator(t, 42, plainEncryptor{}, DefaultOptions())

	_, err := gen.Generate(context.Background(), 3, nil)
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)
	assert.Equal(t, pkgerrors.CodeEmptyCatalog, pkgerrors.CodeOf(err))
}

func TestGenerateEncryptorFailure(t *testing.T) {
	gen := newTestGenerator(t, 42, failingEncryptor{}, DefaultOptions())

	_, err := gen.Generate(context.Background(), 1, makeCatalog(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cipher offline")
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(t, 42, plainEncryptor{}, DefaultOptions()).Generate(ctx, 2, makeCatalog(10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateZeroCustomers(t *testing.T) {
	customers, err := newTestGenerator(t, 42, plainEncryptor{}, DefaultOptions()).Generate(context.Background(), 0, makeCatalog(10))
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestNewGeneratorValidatesOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBaskets = 0

	_, err := NewGenerator(GeneratorParams{
		Context:   NewGenerationContext(1, fixedNow),
		Encryptor: plainEncryptor{},
		Options:   opts,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = NewGenerator(GeneratorParams{Context: NewGenerationContext(1, fixedNow), Options: DefaultOptions()})
	assert.Error(t, err)
}

func TestGenerateRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	gen, err := NewGenerator(GeneratorParams{
		Context:   NewGenerationContext(42, fixedNow),
		Encryptor: plainEncryptor{},
		Options:   smallOptions(),
		Metrics:   metrics.NewGenerationMetrics(reg),
	})
	require.NoError(t, err)

	customers, err := gen.Generate(context.Background(), 5, makeCatalog(20))
	require.NoError(t, err)

	baskets, items := 0, 0
	for _, c := range customers {
		for _, b := range append(append([]Basket{}, c.Baskets...), c.Wishlist...) {
			baskets++
			items += len(b.Items)
		}
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)
	totals := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			totals[mf.GetName()] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(5), totals["shopgen_customers_generated_total"])
	assert.Equal(t, float64(baskets), totals["shopgen_baskets_generated_total"])
	assert.Equal(t, float64(items), totals["shopgen_line_items_generated_total"])
}

func TestBasketJSONShape(t *testing.T) {
	customers, err := newTestGenerator(t, 42, plainEncryptor{}, smallOptions()).Generate(context.Background(), 5, makeCatalog(15))
	require.NoError(t, err)

	var saved, bought *Basket
	for i := range customers {
		for j := range customers[i].Wishlist {
			saved = &customers[i].Wishlist[j]
		}
		for j := range customers[i].Baskets {
			if customers[i].Baskets[j].IsBought() {
				bought = &customers[i].Baskets[j]
			}
		}
	}
	require.NotNil(t, saved)
	require.NotNil(t, bought)

	var savedJSON map[string]any
	raw, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &savedJSON))
	assert.Equal(t, "SAVED", savedJSON["type"])
	assert.Contains(t, savedJSON, "products")
	assert.Nil(t, savedJSON["checkout_timestamp"])
	assert.Nil(t, savedJSON["shipping_status"])
	assert.Nil(t, savedJSON["tracking_number"])
	assert.Equal(t, float64(0), savedJSON["discount_applied"])

	var boughtJSON map[string]any
	raw, err = json.Marshal(bought)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &boughtJSON))
	assert.IsType(t, float64(0), boughtJSON["total_price"])
	assert.IsType(t, "", boughtJSON["tracking_number"])
	assert.IsType(t, "", boughtJSON["checkout_timestamp"])

	item := boughtJSON["products"].([]any)[0].(map[string]any)
	full := item["full_product"].(map[string]any)
	assert.Equal(t, item["sku"], full["item_id"])
	assert.Equal(t, "Maison", full["brand"])
}
