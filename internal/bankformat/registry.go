package bankformat

import (
	"sort"
	"strings"
	"sync"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

// GenericCode is the fallback format used when detection is inconclusive.
const GenericCode = "generic"

// nameBonus is added to a format's detection score when the bank's display
// name literally appears in the headers.
const nameBonus = 0.1

// matchedBonus is added per matched field. It breaks full-match ties in favor
// of the config with the richer mapping: a bank whose seven-field mapping all
// matched is a better explanation of the headers than the generic four.
const matchedBonus = 0.01

// Registry holds the registered bank format configs, one per bank code plus
// the generic fallback.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]*FormatConfig
	logger  logging.Logger
}

// NewRegistry creates a Registry pre-loaded with the built-in formats.
func NewRegistry(logger logging.Logger) *Registry {
	r := &Registry{
		configs: make(map[string]*FormatConfig),
		logger:  logger,
	}
	for _, cfg := range Builtin() {
		if err := r.Register(cfg); err != nil {
			// Built-in configs are compiled at init; a failure here is a
			// programming error, not a runtime condition.
			logger.WithError(err).Error("Invalid built-in format config", logging.Field{Key: "code", Value: cfg.Code})
		}
	}
	return r
}

// Register adds or replaces a format config. Last write wins; the only
// validation is that embedded regexes compile.
func (r *Registry) Register(cfg FormatConfig) error {
	if err := cfg.compile(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.Code] = &cfg

	r.logger.Debug("Registered bank format",
		logging.Field{Key: "code", Value: cfg.Code},
		logging.Field{Key: "version", Value: cfg.Version})
	return nil
}

// Get returns the config for a code, falling back to generic when the code
// is unknown or empty.
func (r *Registry) Get(code string) *FormatConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.configs[code]; ok {
		return cfg
	}
	return r.configs[GenericCode]
}

// Codes returns the registered format codes, sorted.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.configs))
	for code := range r.configs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Detect scores every registered config against the given headers and
// returns the best code. Ties and all-zero scores resolve to generic.
func (r *Registry) Detect(headers []string, sample models.RawRecord) string {
	scores := r.Scores(headers)

	best := GenericCode
	bestScore := 0.0
	tied := false
	for code, score := range scores {
		if code == GenericCode {
			continue
		}
		if score > bestScore {
			best, bestScore, tied = code, score, false
		} else if score == bestScore && bestScore > 0 {
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return GenericCode
	}
	// The generic config scoring at least as high as a specific bank means
	// the headers carry no bank-specific signal.
	if scores[GenericCode] >= bestScore {
		return GenericCode
	}

	r.logger.Debug("Detected bank format",
		logging.Field{Key: "code", Value: best},
		logging.Field{Key: "score", Value: bestScore})
	return best
}

// Scores computes, per config, the fraction of its field mappings matched by
// a header, plus the display-name bonus.
func (r *Registry) Scores(headers []string) map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scores := make(map[string]float64, len(r.configs))
	for code, cfg := range r.configs {
		scores[code] = scoreConfig(cfg, headers)
	}
	return scores
}

func scoreConfig(cfg *FormatConfig, headers []string) float64 {
	if len(cfg.Fields) == 0 {
		return 0
	}

	matched := 0
	for _, alternatives := range cfg.Fields {
		if _, ok := MatchHeader(headers, alternatives); ok {
			matched++
		}
	}
	score := float64(matched)/float64(len(cfg.Fields)) + matchedBonus*float64(matched)

	if cfg.Name != "" {
		nameLower := strings.ToLower(cfg.Name)
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), nameLower) {
				score += nameBonus
				break
			}
		}
	}
	return score
}
