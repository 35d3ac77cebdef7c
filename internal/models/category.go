package models

// Category is one entry from the user's category list. Keywords drive the
// pattern-matching categorization strategy and are loaded from a YAML asset
// rather than compiled in.
type Category struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Type     TransactionType `yaml:"type"`
	Keywords []string        `yaml:"keywords,omitempty"`
}

// Suggestion is one ranked category candidate produced by a strategy.
type Suggestion struct {
	CategoryID string  `yaml:"category_id"`
	Confidence float64 `yaml:"confidence"`
	Source     string  `yaml:"source"` // strategy that produced it
}

// CategorizationResult is the outcome of the strategy cascade. CategoryID is
// empty when nothing matched; the caller treats that as "needs manual
// categorization".
type CategorizationResult struct {
	CategoryID  string       `yaml:"category_id,omitempty"`
	Confidence  float64      `yaml:"confidence"`
	Strategy    string       `yaml:"strategy"` // winning strategy name
	Rule        string       `yaml:"rule,omitempty"`
	Suggestions []Suggestion `yaml:"suggestions,omitempty"` // at most 5, confidence-descending
}
