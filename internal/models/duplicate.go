package models

// ExactDuplicateScore is the score at or above which a match is treated as an
// exact duplicate and may be auto-resolved.
const ExactDuplicateScore = 0.95

// DuplicateMatch is one candidate match from duplicate detection.
type DuplicateMatch struct {
	TransactionID string   `yaml:"transaction_id"`
	Score         float64  `yaml:"score"` // in [0,1]
	Reasons       []string `yaml:"reasons,omitempty"`
	MatchedFields []string `yaml:"matched_fields,omitempty"`
	Exact         bool     `yaml:"exact"` // score >= ExactDuplicateScore
}

// DetectionResult is the outcome of duplicate detection for one incoming
// transaction. Matches are sorted by score descending and capped to five.
type DetectionResult struct {
	IsDuplicate bool             `yaml:"is_duplicate"`
	Matches     []DuplicateMatch `yaml:"matches,omitempty"`
	BestMatch   *DuplicateMatch  `yaml:"best_match,omitempty"`
	Confidence  float64          `yaml:"confidence"`
}

// DuplicatePair links two stored transactions flagged during a full-account
// sweep. Only pairs whose match is exact are auto-resolved; the rest are left
// for manual review.
type DuplicatePair struct {
	KeepID   string         `yaml:"keep_id"`
	RemoveID string         `yaml:"remove_id"`
	Match    DuplicateMatch `yaml:"match"`
}
