package tft

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// evalFormula evaluates an arithmetic expression over previously computed
// line-item amounts. Ref tokens (letters, e.g. "FA", "ZB") resolve against
// refs; numbers, + - * / and parentheses follow the usual precedence.
// Referencing an unknown ref is an error: an item must never read a ref
// declared after it in the model.
//
// No expression library is used here on purpose: the grammar is four
// operators over decimals, and the general-purpose evaluators all operate
// on float64, which would leak binary rounding into monetary amounts.
func evalFormula(formula string, refs map[string]decimal.Decimal) (decimal.Decimal, error) {
	p := &formulaParser{input: formula, refs: refs}
	value, err := p.parseExpression()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return value, nil
}

type formulaParser struct {
	input string
	pos   int
	refs  map[string]decimal.Decimal
}

func (p *formulaParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *formulaParser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

// expression := term (('+' | '-') term)*
func (p *formulaParser) parseExpression() (decimal.Decimal, error) {
	value, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			return value, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if c == '+' {
			value = value.Add(right)
		} else {
			value = value.Sub(right)
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *formulaParser) parseTerm() (decimal.Decimal, error) {
	value, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '*' && c != '/') {
			return value, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		if c == '*' {
			value = value.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero")
			}
			value = value.Div(right)
		}
	}
}

// factor := number | ref | '(' expression ')' | ('+' | '-') factor
func (p *formulaParser) parseFactor() (decimal.Decimal, error) {
	c, ok := p.peek()
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected end of formula")
	}

	switch {
	case c == '(':
		p.pos++
		value, err := p.parseExpression()
		if err != nil {
			return decimal.Zero, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil

	case c == '+':
		p.pos++
		return p.parseFactor()

	case c == '-':
		p.pos++
		value, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil

	case c >= '0' && c <= '9':
		return p.parseNumber()

	case isRefChar(c):
		return p.parseRef()
	}

	return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

func (p *formulaParser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	value, err := decimal.NewFromString(p.input[start:p.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", p.input[start:p.pos], err)
	}
	return value, nil
}

func (p *formulaParser) parseRef() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) && isRefChar(p.input[p.pos]) {
		p.pos++
	}
	ref := p.input[start:p.pos]
	value, ok := p.refs[ref]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown ref %q", ref)
	}
	return value, nil
}

func isRefChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
}

// FormulaRefs returns the ref tokens appearing in a formula, in order of
// first appearance. Used for section-subtotal recomputation and display.
func FormulaRefs(formula string) []string {
	var refs []string
	seen := make(map[string]bool)
	i := 0
	for i < len(formula) {
		if !isRefChar(formula[i]) {
			i++
			continue
		}
		start := i
		for i < len(formula) && isRefChar(formula[i]) {
			i++
		}
		ref := formula[start:i]
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// normalizeFormula trims the whitespace noise a hand-edited mapping variant
// may carry so the stored formula text stays stable.
func normalizeFormula(formula string) string {
	return strings.TrimSpace(formula)
}
