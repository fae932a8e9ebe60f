package customers

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopgen/internal/catalog"
	"github.com/angelmondragon/shopgen/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/types"
)

// ErrInsufficientPopulation is returned when a basket needs more distinct
// products than the catalog holds.
var ErrInsufficientPopulation = pkgerrors.New(pkgerrors.CodeInsufficientPopulation, "sample larger than catalog")

const (
	minQuantity     = 1
	maxQuantity     = 5
	minPrice        = 5.0
	maxPrice        = 200.0
	minRating       = 1.0
	maxRating       = 5.0
	minDiscountRate = 0.05
	maxDiscountRate = 0.25
	basketWindow    = 365
	reviewWords     = 6
)

var (
	basketStatuses = []any{
		enums.BasketStatusCurrent,
		enums.BasketStatusSaved,
		enums.BasketStatusBought,
	}
	basketStatusWeights = []float32{0.1, 0.4, 0.5}
)

// basketSet is the routed output for one customer.
type basketSet struct {
	baskets  []Basket
	wishlist []Basket
}

func (s *basketSet) add(b Basket) {
	if b.Status == enums.BasketStatusSaved {
		s.wishlist = append(s.wishlist, b)
		return
	}
	s.baskets = append(s.baskets, b)
}

func buildBaskets(gc *GenerationContext, opts Options, products []catalog.Product) (basketSet, error) {
	set := basketSet{baskets: []Basket{}, wishlist: []Basket{}}
	count := gc.IntBetween(opts.MinBaskets, opts.MaxBaskets)
	for i := 0; i < count; i++ {
		basket, err := buildBasket(gc, opts, products)
		if err != nil {
			return basketSet{}, err
		}
		set.add(basket)
	}
	return set, nil
}

func buildBasket(gc *GenerationContext, opts Options, products []catalog.Product) (Basket, error) {
	f := gc.Faker()
	today := gc.Today()

	basket := Basket{
		ID:   gc.NextBasketID(),
		Date: types.NewDate(today.AddDate(0, 0, -gc.IntBetween(0, basketWindow))),
	}

	status, err := drawStatus(gc)
	if err != nil {
		return Basket{}, err
	}
	basket.Status = status

	if basket.IsBought() {
		checkout := gc.Now()
		shipping := enums.ShippingStatuses()[gc.Pick(len(enums.ShippingStatuses()))]
		tracking, err := uuid.NewRandomFromReader(f.Rand)
		if err != nil {
			return Basket{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "draw tracking number")
		}
		basket.CheckoutTimestamp = &checkout
		basket.ShippingStatus = &shipping
		basket.TrackingNumber = &tracking
	}

	k := gc.IntBetween(opts.MinProducts, opts.MaxProducts)
	sampled, err := sampleProducts(gc, products, k)
	if err != nil {
		return Basket{}, fmt.Errorf("basket %s: %w", basket.ID, err)
	}

	yearStart := today.AddDate(0, 0, 1-today.YearDay())
	running := decimal.Zero
	basket.Items = make([]LineItem, 0, len(sampled))
	for _, product := range sampled {
		item := LineItem{
			SKU:         product.ItemID,
			Quantity:    gc.IntBetween(minQuantity, maxQuantity),
			Price:       types.DecimalFromFloat(gc.FloatBetween(minPrice, maxPrice), 2),
			Rating:      types.DecimalFromFloat(gc.FloatBetween(minRating, maxRating), 1),
			Review:      f.Sentence(reviewWords),
			DateUpdated: types.NewDate(gc.DayBetween(yearStart, today)),
			FullProduct: product,
		}
		running = running.Add(item.LineTotal().Decimal)
		basket.Items = append(basket.Items, item)
	}

	total := running.Round(2)
	discount := decimal.Zero
	if basket.IsBought() {
		rate := decimal.NewFromFloat(gc.FloatBetween(minDiscountRate, maxDiscountRate))
		discount = total.Mul(rate).Round(2)
	}
	basket.TotalPrice = types.NewDecimal(total)
	basket.DiscountApplied = types.NewDecimal(discount)
	basket.FinalPrice = types.NewDecimal(total.Sub(discount).Round(2))
	return basket, nil
}

func drawStatus(gc *GenerationContext) (enums.BasketStatus, error) {
	picked, err := gc.Faker().Weighted(basketStatuses, basketStatusWeights)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "draw basket status")
	}
	status, ok := picked.(enums.BasketStatus)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unexpected basket status %v", picked))
	}
	return status, nil
}

// sampleProducts draws k distinct products uniformly without replacement using
// a sparse partial Fisher-Yates shuffle, so the catalog is never copied.
func sampleProducts(gc *GenerationContext, products []catalog.Product, k int) ([]catalog.Product, error) {
	n := len(products)
	if k < 0 || k > n {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientPopulation, fmt.Sprintf("cannot sample %d distinct products from a catalog of %d", k, n)).
			WithDetails(map[string]int{"requested": k, "available": n})
	}

	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	out := make([]catalog.Product, k)
	for i := 0; i < k; i++ {
		j := i + gc.Pick(n-i)
		vi, vj := at(i), at(j)
		swapped[j] = vi
		out[i] = products[vj]
	}
	return out, nil
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
