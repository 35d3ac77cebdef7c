package categorizer

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

// ruleThreshold is the acceptance bar for the custom-rule strategy. User
// rules are the most trusted signal, so a firing rule nearly always wins.
const ruleThreshold = 0.8

// RuleSource provides the user's custom rules. Implementations must return
// rules for the given user only.
type RuleSource interface {
	RulesForUser(ctx context.Context, userID string) ([]models.CustomRule, error)
}

// StaticRuleSource serves a fixed rule set, filtered per user. Rules with an
// empty UserID apply to everyone.
type StaticRuleSource struct {
	rules []models.CustomRule
}

// NewStaticRuleSource creates a source over the given rules.
func NewStaticRuleSource(rules []models.CustomRule) *StaticRuleSource {
	return &StaticRuleSource{rules: rules}
}

// RulesForUser returns the global rules plus the user's own.
func (s *StaticRuleSource) RulesForUser(ctx context.Context, userID string) ([]models.CustomRule, error) {
	var out []models.CustomRule
	for _, r := range s.rules {
		if r.UserID == "" || r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// RuleStrategy evaluates user-defined rules in priority order. The first rule
// whose conditions all hold decides the category.
type RuleStrategy struct {
	source RuleSource
	logger logging.Logger
}

// NewRuleStrategy creates a RuleStrategy over the given source.
func NewRuleStrategy(source RuleSource, logger logging.Logger) *RuleStrategy {
	return &RuleStrategy{source: source, logger: logger}
}

func (s *RuleStrategy) Name() string       { return "custom_rules" }
func (s *RuleStrategy) Threshold() float64 { return ruleThreshold }

// Evaluate checks the user's rules, highest priority first.
func (s *RuleStrategy) Evaluate(ctx context.Context, tx *models.Transaction) (Outcome, error) {
	rules, err := s.source.RulesForUser(ctx, tx.UserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load rules for user %s: %w", tx.UserID, err)
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority > rules[j].Priority })

	for _, rule := range rules {
		if !ruleMatches(rule, tx) {
			continue
		}
		confidence := rule.Confidence
		if confidence <= 0 {
			confidence = 0.95
		}
		s.logger.Debug("Custom rule fired",
			logging.Field{Key: "rule", Value: rule.Name},
			logging.Field{Key: "category", Value: rule.CategoryID})
		return Outcome{
			CategoryID: rule.CategoryID,
			Confidence: models.Clamp01(confidence),
			Rule:       rule.Name,
			Suggestions: []models.Suggestion{{
				CategoryID: rule.CategoryID,
				Confidence: models.Clamp01(confidence),
				Source:     s.Name(),
			}},
		}, nil
	}
	return Outcome{}, nil
}

// ruleMatches reports whether every condition of the rule holds. A rule with
// no conditions never matches.
func ruleMatches(rule models.CustomRule, tx *models.Transaction) bool {
	if len(rule.Conditions) == 0 {
		return false
	}
	for _, cond := range rule.Conditions {
		if !conditionHolds(cond, tx) {
			return false
		}
	}
	return true
}

func conditionHolds(cond models.RuleCondition, tx *models.Transaction) bool {
	if cond.Field == models.FieldAmount {
		return amountConditionHolds(cond, tx.Amount)
	}

	var subject string
	switch cond.Field {
	case models.FieldDescription:
		subject = tx.Description
	case models.FieldMerchant:
		subject = tx.Merchant
	case models.FieldLocation:
		subject = tx.Location
	default:
		return false
	}
	subject = strings.ToLower(subject)
	value := strings.ToLower(cond.Value)

	switch cond.Op {
	case models.OpContains:
		return strings.Contains(subject, value)
	case models.OpEquals:
		return subject == value
	case models.OpStartsWith:
		return strings.HasPrefix(subject, value)
	case models.OpEndsWith:
		return strings.HasSuffix(subject, value)
	case models.OpRegex:
		re, err := regexp.Compile("(?i)" + cond.Value)
		if err != nil {
			return false
		}
		return re.MatchString(subject)
	default:
		return false
	}
}

func amountConditionHolds(cond models.RuleCondition, amount decimal.Decimal) bool {
	bound, err := decimal.NewFromString(cond.Value)
	if err != nil {
		return false
	}
	switch cond.Op {
	case models.OpEquals:
		return amount.Equal(bound)
	case models.OpGreaterThan:
		return amount.GreaterThan(bound)
	case models.OpLessThan:
		return amount.LessThan(bound)
	default:
		return false
	}
}
