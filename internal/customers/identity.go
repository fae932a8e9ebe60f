package customers

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/shopgen/pkg/enums"
	"github.com/angelmondragon/shopgen/pkg/security"
	"github.com/angelmondragon/shopgen/pkg/types"
)

const (
	minAge = 18
	maxAge = 80
)

// Encryptor seals a single string field.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
}

// identity is the customer-level data produced before payment and baskets.
type identity struct {
	name              string
	email             string
	username          string
	encryptedPassword string
	phone             string
	createdAt         types.Date
	lastLogin         types.Date
	birthday          types.Date
	tier              enums.CustomerTier
	languages         []enums.Language
	address           string
	shippingAddress   string
	billingAddress    string
}

func buildIdentity(gc *GenerationContext, enc Encryptor) (identity, error) {
	f := gc.Faker()

	name := f.Name()
	email := f.Email()
	username := buildUsername(gc, name, email)

	password, err := security.GeneratePassword(f.Rand, security.DefaultPasswordLength)
	if err != nil {
		return identity{}, err
	}
	encryptedPassword, err := enc.Encrypt(password)
	if err != nil {
		return identity{}, fmt.Errorf("encrypt password: %w", err)
	}

	today := gc.Today()
	createdAt := gc.DayBetween(gc.YearsBefore(5), gc.YearsBefore(1))
	lastLogin := gc.DayBetween(createdAt, today)
	// Oldest birthday is the day after the (maxAge+1)th anniversary.
	birthday := gc.DayBetween(gc.YearsBefore(maxAge+1).AddDate(0, 0, 1), gc.YearsBefore(minAge))

	tiers := enums.CustomerTiers()

	return identity{
		name:              name,
		email:             email,
		username:          username,
		encryptedPassword: encryptedPassword,
		phone:             f.Phone(),
		createdAt:         types.NewDate(createdAt),
		lastLogin:         types.NewDate(lastLogin),
		birthday:          types.NewDate(birthday),
		tier:              tiers[gc.Pick(len(tiers))],
		languages:         pickLanguages(gc),
		address:           f.Address().Address,
		shippingAddress:   f.Address().Address,
		billingAddress:    f.Address().Address,
	}, nil
}

// buildUsername joins the lower-cased first name token, a 3-digit number and
// the local part of the email.
func buildUsername(gc *GenerationContext, name, email string) string {
	first := ""
	if tokens := strings.Fields(name); len(tokens) > 0 {
		first = strings.ToLower(tokens[0])
	}
	local, _, _ := strings.Cut(email, "@")
	return fmt.Sprintf("%s%d_%s", first, gc.IntBetween(100, 999), local)
}

// pickLanguages samples one or two distinct languages.
func pickLanguages(gc *GenerationContext) []enums.Language {
	all := enums.Languages()
	k := gc.IntBetween(1, 2)
	picked := make([]enums.Language, 0, k)
	for _, idx := range gc.Faker().Rand.Perm(len(all))[:k] {
		picked = append(picked, all[idx])
	}
	return picked
}
