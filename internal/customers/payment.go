package customers

import (
	"fmt"
	"strings"
)

const cvcMarker = "CVC:"

// CardFields is the plaintext breakdown of a raw card description.
type CardFields struct {
	CardType       string
	CardholderName string
	CardNumber     string
	Expiration     string
	CVC            string
}

// ParseCard splits a four-line card description:
//
//	VISA 16 digit
//	Jane Doe
//	4111111111111111 04/29
//	CVC: 123
//
// Missing or malformed lines yield empty fields; it never fails.
func ParseCard(raw string) CardFields {
	lines := strings.Split(raw, "\n")
	line := func(i int) string {
		if i < len(lines) {
			return strings.TrimSpace(lines[i])
		}
		return ""
	}

	var fields CardFields
	fields.CardType = line(0)
	fields.CardholderName = line(1)

	if numberAndExp := line(2); strings.Contains(numberAndExp, " ") {
		idx := strings.LastIndex(numberAndExp, " ")
		fields.CardNumber = numberAndExp[:idx]
		fields.Expiration = numberAndExp[idx+1:]
	}

	if cvcLine := line(3); strings.Contains(cvcLine, cvcMarker) {
		fields.CVC = strings.TrimSpace(strings.ReplaceAll(cvcLine, cvcMarker, ""))
	}
	return fields
}

// EncryptCard encrypts each card field on its own.
func EncryptCard(enc Encryptor, fields CardFields) (PaymentInstrument, error) {
	var (
		out PaymentInstrument
		err error
	)
	targets := []struct {
		name  string
		plain string
		dst   *string
	}{
		{"card_type", fields.CardType, &out.CardType},
		{"cardholder_name", fields.CardholderName, &out.CardholderName},
		{"card_number", fields.CardNumber, &out.CardNumber},
		{"expiration", fields.Expiration, &out.Expiration},
		{"cvc", fields.CVC, &out.CVC},
	}
	for _, target := range targets {
		if *target.dst, err = enc.Encrypt(target.plain); err != nil {
			return PaymentInstrument{}, fmt.Errorf("encrypt %s: %w", target.name, err)
		}
	}
	return out, nil
}

// rawCard renders a synthetic card in the four-line layout ParseCard expects.
func rawCard(gc *GenerationContext) string {
	f := gc.Faker()
	card := f.CreditCard()
	return fmt.Sprintf("%s\n%s\n%s %s\n%s %s\n", card.Type, f.Name(), card.Number, card.Exp, cvcMarker, card.Cvv)
}

func buildPayment(gc *GenerationContext, enc Encryptor) (PaymentInstrument, error) {
	return EncryptCard(enc, ParseCard(rawCard(gc)))
}
