package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentfold/agentfold/core"
)

// Calculator evaluates sanitized arithmetic expressions. Only digits, the
// four operators, parentheses, decimal points and whitespace are accepted;
// anything else fails with *core.InvalidExpressionError. Evaluation is a
// recursive-descent parse over that character set, so no identifier, call or
// other code form can ever be evaluated.
type Calculator struct{}

// NewCalculator constructs the calculator tool.
func NewCalculator() *Calculator { return &Calculator{} }

// Name implements Tool.
func (c *Calculator) Name() string { return "calculator" }

// Description implements Tool.
func (c *Calculator) Description() string { return "Perform mathematical calculations" }

// Parameters implements Tool.
func (c *Calculator) Parameters() map[string]any {
	return stringParameters("expression", "Arithmetic expression, e.g. (2+3)*4")
}

// Call implements Tool.
func (c *Calculator) Call(_ context.Context, input string) (any, error) {
	value, err := Evaluate(input)
	if err != nil {
		return nil, err
	}
	return map[string]any{"expression": strings.TrimSpace(input), "result": value}, nil
}

// ExtractExpression scans query for the first maximal run of arithmetic
// characters ([0-9+-*/().] and whitespace) that contains a digit and returns
// it trimmed. It returns "" when the query holds no such run. Callers use
// this so phrases like "calculate 32*23" pass only "32*23" to the evaluator.
func ExtractExpression(query string) string {
	start := -1
	hasDigit := false
	for i := 0; i <= len(query); i++ {
		if i < len(query) && isExpressionChar(query[i]) {
			if start < 0 {
				start = i
				hasDigit = false
			}
			if query[i] >= '0' && query[i] <= '9' {
				hasDigit = true
			}
			continue
		}
		if start >= 0 && hasDigit {
			return strings.TrimSpace(query[start:i])
		}
		start = -1
	}
	return ""
}

func isExpressionChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '+' || c == '-' || c == '*' || c == '/':
		return true
	case c == '(' || c == ')' || c == '.':
		return true
	case c == ' ' || c == '\t':
		return true
	}
	return false
}

// Evaluate parses and evaluates a pure arithmetic expression.
func Evaluate(expression string) (float64, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return 0, &core.InvalidExpressionError{Expression: expression, Reason: "empty expression"}
	}
	for i := 0; i < len(trimmed); i++ {
		if !isExpressionChar(trimmed[i]) {
			return 0, &core.InvalidExpressionError{
				Expression: expression,
				Reason:     "character " + strconv.Quote(string(trimmed[i])) + " is not allowed",
			}
		}
	}

	p := &exprParser{input: trimmed, expr: expression}
	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, p.errorf("unexpected %q", p.input[p.pos])
	}
	return value, nil
}

// exprParser is a minimal recursive-descent parser over the sanitized
// grammar: sum := term (('+'|'-') term)*, term := unary (('*'|'/') unary)*,
// unary := ('+'|'-')* factor, factor := number | '(' sum ')'.
type exprParser struct {
	input string
	expr  string
	pos   int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return &core.InvalidExpressionError{
		Expression: p.expr,
		Reason:     fmt.Sprintf(format, args...),
	}
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *exprParser) parseSum() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			value += rhs
		} else {
			value -= rhs
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			value *= rhs
			continue
		}
		if rhs == 0 {
			return 0, p.errorf("division by zero")
		}
		value /= rhs
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	op, ok := p.peek()
	if ok && (op == '+' || op == '-') {
		p.pos++
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '-' {
			return -value, nil
		}
		return value, nil
	}
	return p.parseFactor()
}

func (p *exprParser) parseFactor() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, p.errorf("unexpected end of expression")
	}
	if c == '(' {
		p.pos++
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		next, ok := p.peek()
		if !ok || next != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpace()
	start := p.pos
	sawDigit := false
	sawDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			sawDigit = true
			p.pos++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			p.pos++
			continue
		}
		break
	}
	if !sawDigit {
		if start < len(p.input) {
			return 0, p.errorf("unexpected %q", p.input[start])
		}
		return 0, p.errorf("unexpected end of expression")
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("malformed number %q", p.input[start:p.pos])
	}
	return value, nil
}
