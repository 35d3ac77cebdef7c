package models

// MerchantInfo is enrichment metadata for a recognized merchant. Entries come
// from the merchant dictionary asset, keyed by a lowercase brand fragment.
type MerchantInfo struct {
	DisplayName string `yaml:"display_name"`
	Category    string `yaml:"category,omitempty"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Chain       bool   `yaml:"chain,omitempty"`
}

// LocationInfo is location metadata inferred from a transaction's location
// hint: a UK postcode, a known city, or both.
type LocationInfo struct {
	City     string `yaml:"city,omitempty"`
	Postcode string `yaml:"postcode,omitempty"`
	Venue    string `yaml:"venue,omitempty"`
}

// PaymentMethod is the payment instrument inferred from description keywords.
type PaymentMethod string

const (
	PaymentCard          PaymentMethod = "card"
	PaymentDirectDebit   PaymentMethod = "direct_debit"
	PaymentStandingOrder PaymentMethod = "standing_order"
	PaymentTransfer      PaymentMethod = "transfer"
	PaymentCash          PaymentMethod = "cash"
	PaymentUnknown       PaymentMethod = "unknown"
)

// PaymentInfo bundles payment-method and recurrence inference. Direct debits
// and standing orders are assumed monthly-recurring by default.
type PaymentInfo struct {
	Method    PaymentMethod `yaml:"method"`
	Recurring bool          `yaml:"recurring"`
	Frequency string        `yaml:"frequency,omitempty"`
}

// EnrichmentResult is the enrichment output bundle. Enriched is set only when
// the aggregate confidence clears the configured minimum (default 0.3); the
// caller persists metadata only in that case.
type EnrichmentResult struct {
	Merchant     *MerchantInfo `yaml:"merchant,omitempty"`
	Location     *LocationInfo `yaml:"location,omitempty"`
	CategoryHint string        `yaml:"category_hint,omitempty"`
	Payment      PaymentInfo   `yaml:"payment"`
	Confidence   float64       `yaml:"confidence"`
	Sources      []string      `yaml:"sources,omitempty"` // contributing sub-signals
	Enriched     bool          `yaml:"enriched"`
}
