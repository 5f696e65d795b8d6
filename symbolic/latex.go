package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

var greekLetters = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "pi": true, "rho": true,
	"sigma": true, "tau": true, "upsilon": true, "phi": true, "chi": true,
	"psi": true, "omega": true,
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true, "Xi": true,
	"Pi": true, "Sigma": true, "Upsilon": true, "Phi": true, "Psi": true,
	"Omega": true,
}

// SymbolLaTeX typesets a symbol name. Greek letter names become commands
// and a suffix after '_' (or a trailing run of digits) becomes a subscript:
//
//	alpha   -> \alpha
//	x_1     -> x_{1}
//	theta2  -> \theta_{2}
//	p_rain  -> p_{rain}
func SymbolLaTeX(name string) string {
	if name == "" {
		return ""
	}
	base, sub := splitSubscript(name)
	out := typesetBase(base)
	if sub != "" {
		out += "_{" + typesetBase(sub) + "}"
	}
	return out
}

func splitSubscript(name string) (base, sub string) {
	if i := strings.Index(name, "_"); i > 0 && i < len(name)-1 {
		return name[:i], name[i+1:]
	}
	end := len(name)
	for end > 0 && name[end-1] >= '0' && name[end-1] <= '9' {
		end--
	}
	if end > 0 && end < len(name) {
		return name[:end], name[end:]
	}
	return name, ""
}

func typesetBase(s string) string {
	if greekLetters[s] {
		return "\\" + s
	}
	return s
}

var textEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
)

// EscapeText escapes the LaTeX special characters of s so it can be placed
// inside \text{...}.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// Latex renders an arbitrary value as LaTeX. Expressions render
// themselves; Go numbers are printed exactly; strings are set in
// typewriter text; anything else falls back to its fmt representation.
// nil, including a nil number or expression pointer, is \emptyset.
func Latex(v interface{}) string {
	if IsNil(v) {
		return `\emptyset`
	}
	switch x := v.(type) {
	case Expr:
		return x.LaTeX()
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case *big.Rat:
		return NRat(x).LaTeX()
	case *big.Int:
		return x.String()
	case bool:
		if x {
			return `\text{True}`
		}
		return `\text{False}`
	case string:
		return `\mathtt{\text{` + EscapeText(x) + `}}`
	case fmt.Stringer:
		return `\text{` + EscapeText(x.String()) + `}`
	}
	return `\text{` + EscapeText(fmt.Sprintf("%v", v)) + `}`
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant, exp := s[:i], strings.TrimLeftFunc(s[i+1:], func(r rune) bool { return r == '+' })
		return mant + ` \cdot 10^{` + exp + `}`
	}
	if !strings.ContainsFunc(s, func(r rune) bool { return !unicode.IsDigit(r) && r != '-' }) {
		s += ".0"
	}
	return s
}

// ToExpr converts a raw Go value to an expression when it has an exact
// symbolic counterpart.
func ToExpr(v interface{}) (Expr, bool) {
	if IsNil(v) {
		return nil, false
	}
	switch x := v.(type) {
	case Expr:
		return x, true
	case int:
		return N(int64(x)), true
	case int64:
		return N(x), true
	case int32:
		return N(int64(x)), true
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, false
		}
		return NFloat(x), true
	case *big.Rat:
		return NRat(x), true
	}
	return nil, false
}
