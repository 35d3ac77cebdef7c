package enricher

import (
	"strings"

	"ledgerflow/ingest/internal/models"
)

// paymentKeywords maps description fragments to payment methods. Checked in
// declaration order; more specific fragments come first.
var paymentKeywords = []struct {
	fragment string
	method   models.PaymentMethod
}{
	{"direct debit", models.PaymentDirectDebit},
	{"dd ", models.PaymentDirectDebit},
	{"standing order", models.PaymentStandingOrder},
	{"so ", models.PaymentStandingOrder},
	{"card payment", models.PaymentCard},
	{"contactless", models.PaymentCard},
	{"pos ", models.PaymentCard},
	{"faster payment", models.PaymentTransfer},
	{"bank transfer", models.PaymentTransfer},
	{"bacs", models.PaymentTransfer},
	{"chaps", models.PaymentTransfer},
	{"atm", models.PaymentCash},
	{"cash withdrawal", models.PaymentCash},
}

// InferPayment maps description keywords to a payment method. Direct debits
// and standing orders are marked monthly-recurring; everything else is
// assumed one-off.
func InferPayment(description string) models.PaymentInfo {
	lower := " " + strings.ToLower(description) + " "

	for _, kw := range paymentKeywords {
		fragment := kw.fragment
		var hit bool
		if strings.HasSuffix(fragment, " ") {
			// Short abbreviations ("dd", "so", "pos") must stand alone as a
			// word; bare Contains would match inside ordinary words.
			hit = strings.Contains(lower, " "+fragment)
		} else {
			hit = strings.Contains(lower, fragment)
		}
		if !hit {
			continue
		}
		info := models.PaymentInfo{Method: kw.method}
		if kw.method == models.PaymentDirectDebit || kw.method == models.PaymentStandingOrder {
			info.Recurring = true
			info.Frequency = "monthly"
		}
		return info
	}
	return models.PaymentInfo{Method: models.PaymentUnknown}
}
