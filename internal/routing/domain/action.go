package routing

import "fmt"

// Action is a notification rule: an optional filter plus the operation lists
// for each trigger lifecycle phase.
type Action struct {
	ID        string
	Name      string
	EscPeriod string
	Filter    *Filter

	ProblemOperations  []Operation
	UpdateOperations   []Operation
	RecoveryOperations []Operation
}

// Filter is an ordered condition list with a boolean eval formula referencing
// conditions by formula id.
type Filter struct {
	Conditions  []Condition
	EvalFormula string
}

// Condition is one (type, operator, value) filter entry.
type Condition struct {
	Type      ConditionType
	Operator  Operator
	Value     string
	Value2    string
	FormulaID string
}

// OperationsFor returns the action's operation list for a phase.
func (a *Action) OperationsFor(phase Phase) []Operation {
	switch phase {
	case PhaseProblem:
		return a.ProblemOperations
	case PhaseRecovery:
		return a.RecoveryOperations
	default:
		return a.UpdateOperations
	}
}

// Matches decides whether the action applies to the trigger. Actions without
// filter conditions always apply. Otherwise every condition is evaluated
// against the trigger attribute its type selects, and the boolean results are
// combined by the filter's eval formula.
func (a *Action) Matches(t *Trigger) (bool, error) {
	if a.Filter == nil || len(a.Filter.Conditions) == 0 {
		return true, nil
	}
	results := make(map[string]bool, len(a.Filter.Conditions))
	for _, cond := range a.Filter.Conditions {
		if !cond.Type.Valid() {
			return false, fmt.Errorf("%w: %q", ErrUnknownConditionType, cond.Type)
		}
		// Time-of-day and suppression checks depend on event state this pass
		// does not model; they count as satisfied.
		if cond.Type.TriviallyTrue() {
			results[cond.FormulaID] = true
			continue
		}
		attr, ok := t.Attribute(cond.Type)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownConditionType, cond.Type)
		}
		matched, err := EvalCondition(cond.Operator, cond.operand(), attr)
		if err != nil {
			return false, fmt.Errorf("action %s condition %s: %w", a.ID, cond.FormulaID, err)
		}
		results[cond.FormulaID] = matched
	}
	matched, err := EvalFormula(a.Filter.EvalFormula, results)
	if err != nil {
		return false, fmt.Errorf("action %s: %w", a.ID, err)
	}
	return matched, nil
}

// operand builds the comparison operand; tag-value conditions carry the tag
// name in value2.
func (c Condition) operand() ConditionValue {
	if c.Type == ConditionTagValue {
		return ConditionValue{Tag: c.Value2, Value: c.Value}
	}
	return ConditionValue{Value: c.Value}
}

// SelectActions returns the actions whose filters match the trigger. A
// condition or formula failure skips only the offending action; failures are
// reported through onError when it is non-nil.
func SelectActions(t *Trigger, actions []Action, onError func(action Action, err error)) []Action {
	var selected []Action
	for _, action := range actions {
		matched, err := action.Matches(t)
		if err != nil {
			if onError != nil {
				onError(action, err)
			}
			continue
		}
		if matched {
			selected = append(selected, action)
		}
	}
	return selected
}
