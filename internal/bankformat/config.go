// Package bankformat holds the declarative parser configuration for each
// supported bank export. A FormatConfig describes exactly how one bank's CSV
// looks: which headers carry which canonical field, which date formats the
// bank emits, how amounts are encoded, and which cleanup and type-inference
// rules apply. Configs are versioned per bank and treated as immutable once
// registered.
package bankformat

import (
	"fmt"
	"regexp"
	"strings"

	"ledgerflow/ingest/internal/models"
)

// Canonical field names used in a FormatConfig field mapping.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldExternalID  = "external_id"
	FieldCurrency    = "currency"
	FieldMerchant    = "merchant"
	FieldLocation    = "location"
)

// NegativeStyle describes how a bank marks outgoing amounts.
type NegativeStyle string

const (
	NegativeMinus  NegativeStyle = "minus"  // -45.99
	NegativeParens NegativeStyle = "parens" // (45.99)
	NegativeSuffix NegativeStyle = "suffix" // 45.99 DR / 45.99 CR
)

// AmountEncoding describes one bank's amount notation.
type AmountEncoding struct {
	DecimalSeparator   string        `yaml:"decimal_separator"`
	ThousandsSeparator string        `yaml:"thousands_separator"`
	NegativeStyle      NegativeStyle `yaml:"negative_style"`
	DebitSuffix        string        `yaml:"debit_suffix,omitempty"`  // used with NegativeSuffix
	CreditSuffix       string        `yaml:"credit_suffix,omitempty"` // used with NegativeSuffix
	CurrencySymbols    []string      `yaml:"currency_symbols,omitempty"`
}

// CleanupRule is one ordered regex rewrite applied to the raw description.
// A rule flagged ExtractMerchant additionally emits its first capture group
// as the transaction's merchant.
type CleanupRule struct {
	Pattern         string `yaml:"pattern"`
	Replace         string `yaml:"replace"`
	ExtractMerchant bool   `yaml:"extract_merchant,omitempty"`

	re *regexp.Regexp
}

// TypeRule maps a condition over amount, description or merchant to a
// transaction type. Rules run in order; the first match wins.
type TypeRule struct {
	Field string                 `yaml:"field"` // amount|description|merchant
	Op    string                 `yaml:"op"`    // negative|positive|contains|regex
	Value string                 `yaml:"value,omitempty"`
	Type  models.TransactionType `yaml:"type"`

	re *regexp.Regexp
}

// FormatConfig is the full declarative description of one bank export shape.
// Fields maps each canonical field to one or more candidate header names,
// pipe-separated.
type FormatConfig struct {
	Code        string            `yaml:"code"`
	Name        string            `yaml:"name"` // bank display name, used as a detection bonus
	Version     string            `yaml:"version,omitempty"`
	Fields      map[string]string `yaml:"fields"`
	DateFormats []string          `yaml:"date_formats"`
	Amount      AmountEncoding    `yaml:"amount"`
	Cleanup     []CleanupRule     `yaml:"cleanup,omitempty"`
	TypeRules   []TypeRule        `yaml:"type_rules,omitempty"`
}

// compile pre-builds the regexes embedded in cleanup and type rules so a bad
// pattern is rejected at registration, not per record.
func (c *FormatConfig) compile() error {
	for i := range c.Cleanup {
		re, err := regexp.Compile("(?i)" + c.Cleanup[i].Pattern)
		if err != nil {
			return fmt.Errorf("format %s: cleanup rule %d: %w", c.Code, i, err)
		}
		c.Cleanup[i].re = re
	}
	for i := range c.TypeRules {
		if c.TypeRules[i].Op == "regex" {
			re, err := regexp.Compile("(?i)" + c.TypeRules[i].Value)
			if err != nil {
				return fmt.Errorf("format %s: type rule %d: %w", c.Code, i, err)
			}
			c.TypeRules[i].re = re
		}
	}
	return nil
}

// MatchHeader resolves a pipe-separated alternative list against the actual
// headers of a record. Matching is three-tier: exact, case-insensitive, then
// substring in either direction. Returns the matched header name.
func MatchHeader(headers []string, alternatives string) (string, bool) {
	alts := strings.Split(alternatives, "|")

	for _, alt := range alts {
		alt = strings.TrimSpace(alt)
		for _, h := range headers {
			if h == alt {
				return h, true
			}
		}
	}
	for _, alt := range alts {
		alt = strings.TrimSpace(alt)
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), alt) {
				return h, true
			}
		}
	}
	for _, alt := range alts {
		altLower := strings.ToLower(strings.TrimSpace(alt))
		if altLower == "" {
			continue
		}
		for _, h := range headers {
			hLower := strings.ToLower(strings.TrimSpace(h))
			if strings.Contains(hLower, altLower) || strings.Contains(altLower, hLower) {
				return h, true
			}
		}
	}
	return "", false
}

// FieldValue extracts the canonical field from a raw record using the
// config's field mapping and the same matching strategy as detection.
func (c *FormatConfig) FieldValue(raw models.RawRecord, field string) (string, bool) {
	alternatives, ok := c.Fields[field]
	if !ok {
		return "", false
	}
	header, ok := MatchHeader(raw.Headers(), alternatives)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(raw[header]), true
}

// CleanDescription applies the ordered cleanup rules. The second return value
// is the merchant captured by a merchant-extracting rule, if any fired.
func (c *FormatConfig) CleanDescription(description string) (string, string) {
	merchant := ""
	for i := range c.Cleanup {
		rule := &c.Cleanup[i]
		if rule.re == nil {
			continue
		}
		if rule.ExtractMerchant && merchant == "" {
			if m := rule.re.FindStringSubmatch(description); len(m) > 1 {
				merchant = strings.TrimSpace(m[1])
			}
		}
		description = rule.re.ReplaceAllString(description, rule.Replace)
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(description, " ")), merchant
}

var spaceRun = regexp.MustCompile(`\s+`)

// InferType evaluates the ordered type rules; the first matching rule wins.
// The boolean reports whether any rule matched.
func (c *FormatConfig) InferType(signedNegative bool, description, merchant string) (models.TransactionType, bool) {
	for i := range c.TypeRules {
		rule := &c.TypeRules[i]

		var subject string
		switch rule.Field {
		case "description":
			subject = description
		case "merchant":
			subject = merchant
		case "amount":
			// amount rules use the sign ops below
		default:
			continue
		}

		switch rule.Op {
		case "negative":
			if rule.Field == "amount" && signedNegative {
				return rule.Type, true
			}
		case "positive":
			if rule.Field == "amount" && !signedNegative {
				return rule.Type, true
			}
		case "contains":
			if rule.Value != "" && strings.Contains(strings.ToLower(subject), strings.ToLower(rule.Value)) {
				return rule.Type, true
			}
		case "regex":
			if rule.re != nil && rule.re.MatchString(subject) {
				return rule.Type, true
			}
		}
	}
	return "", false
}
