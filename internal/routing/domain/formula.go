package routing

import (
	"fmt"
	"strings"
	"unicode"
)

// EvalFormula evaluates a condition eval formula such as "A and (B or not C)"
// against per-condition boolean results keyed by formula id. The grammar is
// limited to and/or/not, parentheses and formula-id literals; anything else,
// including a formula id with no recorded result, fails with a FormulaError.
func EvalFormula(formula string, results map[string]bool) (bool, error) {
	tokens, err := tokenizeFormula(formula)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return false, formulaErr(formula, "empty expression")
	}
	p := &formulaParser{formula: formula, tokens: tokens, results: results}
	value, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if !p.done() {
		return false, formulaErr(formula, fmt.Sprintf("unexpected token %q", p.peek()))
	}
	return value, nil
}

type formulaParser struct {
	formula string
	tokens  []string
	pos     int
	results map[string]bool
}

func (p *formulaParser) done() bool { return p.pos >= len(p.tokens) }

func (p *formulaParser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *formulaParser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

// parseOr := parseAnd { "or" parseAnd }
func (p *formulaParser) parseOr() (bool, error) {
	value, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for !p.done() && strings.EqualFold(p.peek(), "or") {
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		value = value || rhs
	}
	return value, nil
}

// parseAnd := parseUnary { "and" parseUnary }
func (p *formulaParser) parseAnd() (bool, error) {
	value, err := p.parseUnary()
	if err != nil {
		return false, err
	}
	for !p.done() && strings.EqualFold(p.peek(), "and") {
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		value = value && rhs
	}
	return value, nil
}

// parseUnary := "not" parseUnary | "(" parseOr ")" | formula-id
func (p *formulaParser) parseUnary() (bool, error) {
	if p.done() {
		return false, formulaErr(p.formula, "unexpected end of expression")
	}
	tok := p.next()
	switch {
	case strings.EqualFold(tok, "not"):
		value, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		return !value, nil
	case tok == "(":
		value, err := p.parseOr()
		if err != nil {
			return false, err
		}
		if p.next() != ")" {
			return false, formulaErr(p.formula, "missing closing parenthesis")
		}
		return value, nil
	case tok == ")":
		return false, formulaErr(p.formula, "unexpected closing parenthesis")
	default:
		value, ok := p.results[tok]
		if !ok {
			return false, formulaErr(p.formula, fmt.Sprintf("no condition for formula id %q", tok))
		}
		return value, nil
	}
}

func tokenizeFormula(formula string) ([]string, error) {
	var tokens []string
	runes := []rune(formula)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')':
			tokens = append(tokens, string(r))
			i++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
		default:
			return nil, formulaErr(formula, fmt.Sprintf("invalid character %q", r))
		}
	}
	return tokens, nil
}
