package customers

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopgen/internal/catalog"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/logger"
	"github.com/angelmondragon/shopgen/pkg/metrics"
)

const progressEvery = 1000

// Options bounds the random basket shape.
type Options struct {
	MinBaskets  int
	MaxBaskets  int
	MinProducts int
	MaxProducts int
	Country     string
}

// DefaultOptions mirrors the stock configuration.
func DefaultOptions() Options {
	return Options{
		MinBaskets:  1,
		MaxBaskets:  50,
		MinProducts: 1,
		MaxProducts: 10,
		Country:     "FR",
	}
}

func (o Options) validate() error {
	details := map[string]string{}
	if o.MinBaskets < 1 {
		details["min_baskets"] = "must be at least 1"
	}
	if o.MaxBaskets < o.MinBaskets {
		details["max_baskets"] = "must be greater than or equal to min_baskets"
	}
	if o.MinProducts < 1 {
		details["min_products"] = "must be at least 1"
	}
	if o.MaxProducts < o.MinProducts {
		details["max_products"] = "must be greater than or equal to min_products"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid generator options").WithDetails(details)
	}
	return nil
}

// GeneratorParams wires a Generator.
type GeneratorParams struct {
	Context   *GenerationContext
	Encryptor Encryptor
	Options   Options
	Logger    *logger.Logger
	Metrics   *metrics.GenerationMetrics
}

// Generator assembles customer record trees.
type Generator struct {
	gc      *GenerationContext
	enc     Encryptor
	opts    Options
	logg    *logger.Logger
	metrics *metrics.GenerationMetrics
}

func NewGenerator(params GeneratorParams) (*Generator, error) {
	if params.Context == nil {
		return nil, fmt.Errorf("generation context required")
	}
	if params.Encryptor == nil {
		return nil, fmt.Errorf("encryptor required")
	}
	if err := params.Options.validate(); err != nil {
		return nil, err
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Generator{
		gc:      params.Context,
		enc:     params.Encryptor,
		opts:    params.Options,
		logg:    logg,
		metrics: params.Metrics,
	}, nil
}

// Generate builds numCustomers customers in index order. It fails fast on an
// empty catalog and stops at the first error.
func (g *Generator) Generate(ctx context.Context, numCustomers int, products []catalog.Product) ([]Customer, error) {
	if numCustomers < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer count must not be negative")
	}
	if len(products) == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	if g.opts.MinProducts > len(products) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientPopulation, fmt.Sprintf("every basket needs at least %d products but the catalog has %d", g.opts.MinProducts, len(products))).
			WithDetails(map[string]int{"requested": g.opts.MinProducts, "available": len(products)})
	}

	out := make([]Customer, 0, numCustomers)
	for cid := 0; cid < numCustomers; cid++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		customer, err := g.GenerateCustomer(ctx, cid, products)
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", cid, err)
		}
		out = append(out, customer)

		if (cid+1)%progressEvery == 0 {
			g.logg.Info(g.logg.WithField(ctx, "generated", cid+1), "customer generation progress")
		}
	}
	return out, nil
}

// GenerateCustomer builds a single customer: identity, then payment, then baskets.
func (g *Generator) GenerateCustomer(ctx context.Context, cid int, products []catalog.Product) (Customer, error) {
	who, err := buildIdentity(g.gc, g.enc)
	if err != nil {
		return Customer{}, err
	}
	card, err := buildPayment(g.gc, g.enc)
	if err != nil {
		return Customer{}, err
	}
	set, err := buildBaskets(g.gc, g.opts, products)
	if err != nil {
		return Customer{}, err
	}

	customer := Customer{
		ID:                  cid,
		CustomerName:        who.name,
		Email:               who.email,
		Username:            who.username,
		EncryptedPassword:   who.encryptedPassword,
		PhoneNumber:         who.phone,
		AccountCreationDate: who.createdAt,
		LastLogin:           who.lastLogin,
		CustomerTier:        who.tier,
		Birthday:            who.birthday,
		Country:             g.opts.Country,
		CreditCard:          card,
		Languages:           who.languages,
		Wishlist:            set.wishlist,
		Address:             who.address,
		ShippingAddress:     who.shippingAddress,
		BillingAddress:      who.billingAddress,
		Baskets:             set.baskets,
	}
	g.record(ctx, customer)
	return customer, nil
}

func (g *Generator) record(ctx context.Context, customer Customer) {
	g.metrics.IncCustomer(customer.CustomerTier.String())
	items := 0
	for _, group := range [][]Basket{customer.Baskets, customer.Wishlist} {
		for _, b := range group {
			g.metrics.IncBasket(b.Status.String())
			items += len(b.Items)
		}
	}
	g.metrics.AddLineItems(items)

	g.logg.Debug(g.logg.WithFields(ctx, map[string]any{
		"customer_id": customer.ID,
		"baskets":     len(customer.Baskets),
		"wishlist":    len(customer.Wishlist),
		"items":       items,
	}), "customer generated")
}
