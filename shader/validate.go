package shader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidExpression is returned for text that is not a single
	// expression.
	ErrInvalidExpression = errors.New("shader: invalid expression")

	// ErrInvalidColorType is returned for an unknown color type.
	ErrInvalidColorType = errors.New("shader: invalid color type")

	// ErrCompile wraps naga parse, lowering and validation failures.
	ErrCompile = errors.New("shader: compile failed")
)

// ExprError reports a failed expression and the channel it came from.
// Channel is ChannelUnknown when the failure could not be attributed.
type ExprError struct {
	Kind    Kind
	Channel Channel
	Expr    string
	Err     error
}

func (e *ExprError) Error() string {
	if e.Channel == ChannelUnknown {
		return fmt.Sprintf("%s material: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s material: channel %s %q: %v", e.Kind, e.Channel, e.Expr, e.Err)
}

func (e *ExprError) Unwrap() error { return e.Err }

// Keywords that would let an expression escape its slot in the template.
var forbiddenWords = map[string]bool{
	"fn": true, "let": true, "var": true, "const": true, "override": true,
	"return": true, "if": true, "else": true, "loop": true, "for": true,
	"while": true, "switch": true, "case": true, "default": true,
	"break": true, "continue": true, "continuing": true, "discard": true,
	"struct": true, "alias": true, "enable": true, "requires": true,
	"diagnostic": true, "const_assert": true,
}

// Validate checks that expr is a single expression that cannot alter the
// structure of the surrounding program. It does not type-check; that is
// left to Compile.
func Validate(expr string) error {
	s := strings.TrimSpace(expr)
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidExpression)
	}
	if strings.ContainsAny(s, ";{}@") {
		return fmt.Errorf("%w: unexpected statement syntax in %q", ErrInvalidExpression, s)
	}
	if strings.Contains(s, "//") || strings.Contains(s, "/*") || strings.Contains(s, "*/") {
		return fmt.Errorf("%w: comments are not allowed", ErrInvalidExpression)
	}
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			return fmt.Errorf("%w: unbalanced parentheses", ErrInvalidExpression)
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced parentheses", ErrInvalidExpression)
	}
	for _, w := range words(s) {
		if forbiddenWords[w] {
			return fmt.Errorf("%w: keyword %q", ErrInvalidExpression, w)
		}
	}
	return nil
}

// Normalize rewrites numeric literals so they parse as f32 in WGSL:
// ".5" becomes "0.5" and a bare integer "2" becomes "2.0". Literals with
// a type suffix or hex prefix are kept as written.
func Normalize(expr string) string {
	s := strings.TrimSpace(expr)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		c := s[i]
		startsNumber := isDigit(c) || (c == '.' && i+1 < len(s) && isDigit(s[i+1]))
		if !startsNumber || (i > 0 && isIdent(s[i-1])) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(s) {
			d := s[j]
			if isIdent(d) || d == '.' {
				j++
				continue
			}
			// exponent sign
			if (d == '+' || d == '-') && j > i && (s[j-1] == 'e' || s[j-1] == 'E') && !strings.ContainsAny(s[i:j], "xX") {
				j++
				continue
			}
			break
		}
		b.WriteString(normalizeNumber(s[i:j]))
		i = j
	}
	return b.String()
}

func normalizeNumber(n string) string {
	if strings.ContainsAny(n, "xX") {
		return n
	}
	if n[0] == '.' {
		n = "0" + n
	}
	switch n[len(n)-1] {
	case 'u', 'i', 'f', 'h':
		return n
	}
	if strings.ContainsAny(n, ".eE") {
		return n
	}
	return n + ".0"
}

func words(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		if !isIdentStart(s[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && isIdent(s[j]) {
			j++
		}
		out = append(out, s[i:j])
		i = j
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool { return isIdentStart(c) || isDigit(c) }
