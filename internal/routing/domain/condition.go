package routing

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionType identifies which trigger attribute a filter condition inspects.
// Codes mirror the monitoring API wire protocol.
type ConditionType string

const (
	ConditionHostGroup  ConditionType = "0"
	ConditionHost       ConditionType = "1"
	ConditionTrigger    ConditionType = "2"
	ConditionEventName  ConditionType = "3"
	ConditionPriority   ConditionType = "4"
	ConditionTimePeriod ConditionType = "6"
	ConditionTemplate   ConditionType = "13"
	ConditionSuppressed ConditionType = "16"
	ConditionTagName    ConditionType = "25"
	ConditionTagValue   ConditionType = "26"
)

// Valid returns true when the condition type is supported.
func (t ConditionType) Valid() bool {
	switch t {
	case ConditionHostGroup, ConditionHost, ConditionTrigger, ConditionEventName,
		ConditionPriority, ConditionTimePeriod, ConditionTemplate,
		ConditionSuppressed, ConditionTagName, ConditionTagValue:
		return true
	default:
		return false
	}
}

// TriviallyTrue returns true for condition types that are never evaluated
// against trigger data (time period and suppression checks).
func (t ConditionType) TriviallyTrue() bool {
	return t == ConditionTimePeriod || t == ConditionSuppressed
}

// Operator is a filter condition comparison operator. Codes mirror the
// monitoring API wire protocol.
type Operator string

const (
	OperatorEqual          Operator = "0"
	OperatorNotEqual       Operator = "1"
	OperatorContains       Operator = "2"
	OperatorNotContains    Operator = "3"
	OperatorGreaterOrEqual Operator = "5"
	OperatorLessOrEqual    Operator = "6"
)

// AttributeKind tags the shape of a trigger attribute value.
type AttributeKind int

const (
	// AttrIDSet is a set of entity ids (host groups, hosts, templates, the
	// trigger's own id).
	AttrIDSet AttributeKind = iota
	// AttrScalar is a single string value (event name, priority).
	AttrScalar
	// AttrTagNames is the set of tag names attached to the trigger.
	AttrTagNames
	// AttrTagValues is the tag name to tag value mapping of the trigger.
	AttrTagValues
)

// Attribute is one trigger attribute in the shape a condition type expects.
type Attribute struct {
	Kind   AttributeKind
	IDs    []string
	Scalar string
	Tags   map[string]string
}

// ConditionValue is the comparison operand of a filter condition. Tag-value
// conditions carry both a tag name and a value; every other type carries a
// plain value.
type ConditionValue struct {
	Value string
	Tag   string
}

// IsTagPair reports whether the operand addresses a specific tag.
func (v ConditionValue) IsTagPair() bool {
	return v.Tag != ""
}

// EvalCondition evaluates one filter condition operand against a trigger
// attribute. The comparison semantics depend on both the operator and the
// attribute shape; numeric comparisons fail with ErrTypeMismatch when either
// operand does not parse as an integer.
func EvalCondition(op Operator, value ConditionValue, attr Attribute) (bool, error) {
	switch op {
	case OperatorEqual, OperatorNotEqual:
		equals := op == OperatorEqual
		return matchesFlip(equals, evalEqual(value, attr)), nil
	case OperatorContains, OperatorNotContains:
		contains := op == OperatorContains
		return matchesFlip(contains, evalContains(value, attr)), nil
	case OperatorGreaterOrEqual, OperatorLessOrEqual:
		return evalNumeric(op, value, attr)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
}

func matchesFlip(positive, matched bool) bool {
	if matched {
		return positive
	}
	return !positive
}

func evalEqual(value ConditionValue, attr Attribute) bool {
	switch attr.Kind {
	case AttrTagValues:
		if value.IsTagPair() {
			data, ok := attr.Tags[value.Tag]
			return ok && data == value.Value
		}
		return false
	case AttrIDSet:
		return containsString(attr.IDs, value.Value)
	case AttrTagNames:
		_, ok := attr.Tags[value.Value]
		return ok
	default:
		return attr.Scalar == value.Value
	}
}

func evalContains(value ConditionValue, attr Attribute) bool {
	switch attr.Kind {
	case AttrTagValues:
		if value.IsTagPair() {
			data, ok := attr.Tags[value.Tag]
			return ok && strings.Contains(data, value.Value)
		}
		return false
	case AttrIDSet:
		return containsString(attr.IDs, value.Value)
	case AttrTagNames:
		_, ok := attr.Tags[value.Value]
		return ok
	default:
		return strings.Contains(attr.Scalar, value.Value)
	}
}

func evalNumeric(op Operator, value ConditionValue, attr Attribute) (bool, error) {
	if attr.Kind != AttrScalar {
		return false, ErrTypeMismatch
	}
	want, err := strconv.Atoi(strings.TrimSpace(value.Value))
	if err != nil {
		return false, ErrTypeMismatch
	}
	have, err := strconv.Atoi(strings.TrimSpace(attr.Scalar))
	if err != nil {
		return false, ErrTypeMismatch
	}
	if op == OperatorGreaterOrEqual {
		return have >= want, nil
	}
	return have <= want, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
