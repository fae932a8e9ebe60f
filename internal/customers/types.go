package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopgen/internal/catalog"
	"github.com/angelmondragon/shopgen/pkg/enums"
	"github.com/angelmondragon/shopgen/pkg/types"
)

// LineItem is one sampled product inside a basket.
type LineItem struct {
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Price       types.Decimal   `json:"price"`
	Rating      types.Decimal   `json:"rating"`
	Review      string          `json:"review"`
	DateUpdated types.Date      `json:"date_updated"`
	FullProduct catalog.Product `json:"full_product"`
}

// LineTotal is price * quantity, unrounded.
func (l LineItem) LineTotal() types.Decimal {
	return types.NewDecimal(l.Price.Mul(decimalFromInt(l.Quantity)))
}

// Basket is a cart-like container of line items. Checkout fields are set only
// for bought baskets and serialize as null otherwise.
type Basket struct {
	ID                string                `json:"id"`
	Date              types.Date            `json:"date"`
	Status            enums.BasketStatus    `json:"type"`
	Items             []LineItem            `json:"products"`
	TotalPrice        types.Decimal         `json:"total_price"`
	DiscountApplied   types.Decimal         `json:"discount_applied"`
	FinalPrice        types.Decimal         `json:"final_price"`
	CheckoutTimestamp *time.Time            `json:"checkout_timestamp"`
	ShippingStatus    *enums.ShippingStatus `json:"shipping_status"`
	TrackingNumber    *uuid.UUID            `json:"tracking_number"`
}

// IsBought reports whether the basket went through checkout.
func (b Basket) IsBought() bool {
	return b.Status == enums.BasketStatusBought
}

// PaymentInstrument holds a card with every field individually encrypted.
type PaymentInstrument struct {
	CardType       string `json:"card_type"`
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiration     string `json:"expiration"`
	CVC            string `json:"cvc"`
}

// Customer is the root of one generated record tree.
type Customer struct {
	ID                  int                `json:"id"`
	CustomerName        string             `json:"customer_name"`
	Email               string             `json:"email"`
	Username            string             `json:"username"`
	EncryptedPassword   string             `json:"encrypted_password"`
	PhoneNumber         string             `json:"phone_number"`
	AccountCreationDate types.Date         `json:"account_creation_date"`
	LastLogin           types.Date         `json:"last_login"`
	CustomerTier        enums.CustomerTier `json:"customer_tier"`
	Birthday            types.Date         `json:"birthday"`
	Country             string             `json:"country"`
	CreditCard          PaymentInstrument  `json:"credit_card"`
	Languages           []enums.Language   `json:"languages"`
	Wishlist            []Basket           `json:"wishlist"`
	Address             string             `json:"address"`
	ShippingAddress     string             `json:"shipping_address"`
	BillingAddress      string             `json:"billing_address"`
	Baskets             []Basket           `json:"baskets"`
}
