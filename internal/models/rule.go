package models

// ConditionField names the transaction field a rule condition inspects.
// The set is closed; unknown fields never match.
type ConditionField string

const (
	FieldDescription ConditionField = "description"
	FieldMerchant    ConditionField = "merchant"
	FieldAmount      ConditionField = "amount"
	FieldLocation    ConditionField = "location"
)

// ConditionOp is the comparison a rule condition applies.
type ConditionOp string

const (
	OpContains    ConditionOp = "contains"
	OpEquals      ConditionOp = "equals"
	OpStartsWith  ConditionOp = "starts_with"
	OpEndsWith    ConditionOp = "ends_with"
	OpRegex       ConditionOp = "regex"
	OpGreaterThan ConditionOp = "greater_than"
	OpLessThan    ConditionOp = "less_than"
)

// RuleCondition is one field comparison inside a custom rule. All conditions
// of a rule must hold for the rule to fire.
type RuleCondition struct {
	Field ConditionField `yaml:"field"`
	Op    ConditionOp    `yaml:"op"`
	Value string         `yaml:"value"`
}

// CustomRule is a per-user categorization rule. Rules are evaluated in
// priority order (highest first); the first matching rule wins.
type CustomRule struct {
	ID         string          `yaml:"id"`
	UserID     string          `yaml:"user_id"`
	Name       string          `yaml:"name"`
	Priority   int             `yaml:"priority"`
	CategoryID string          `yaml:"category_id"`
	Confidence float64         `yaml:"confidence"`
	Conditions []RuleCondition `yaml:"conditions"`
}
