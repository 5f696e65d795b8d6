package probtex_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/probtex"
	"github.com/njchilds90/probtex/symbolic"
)

// weather builds the running example: a two-outcome sample space and a sum
// over it.
func weather() (E, x, G *probtex.Definition) {
	E = probtex.Def("E", probtex.NewEventSet("raining", "sunny"))
	x = probtex.Declare("x")
	G = probtex.Def("G", probtex.Sum(probtex.Plus(probtex.Pr(x), probtex.Pr(x)), E, "x"))
	return E, x, G
}

// ============================================================
// Events
// ============================================================

func TestEvent_LaTeX(t *testing.T) {
	assert.Equal(t, `\text{raining}`, probtex.Render(probtex.NewEvent("raining")))
	assert.Equal(t, `\text{50\% chance}`, probtex.Render(probtex.NewEvent("50% chance")))
}

func TestEvent_Equal(t *testing.T) {
	assert.True(t, probtex.NewEvent("sunny").Equal(probtex.NewEvent("sunny")))
	assert.False(t, probtex.NewEvent("sunny").Equal(probtex.NewEvent("raining")))
	assert.True(t, probtex.NewEvent("caf\u00e9").Equal(probtex.NewEvent("cafe\u0301")))
}

func TestEventSet_Dedup(t *testing.T) {
	s := probtex.NewEventSet("a", "b", probtex.NewEvent("a"), "caf\u00e9", "cafe\u0301")
	require.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, `\{\text{a},\;\text{b},\;\text{caf`+"\u00e9"+`}\}`, probtex.Render(s))
}

func TestEventSet_RawValues(t *testing.T) {
	s := probtex.NewEventSet(1, 2, 2)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, `\{\text{1},\;\text{2}\}`, probtex.Render(s))
}

func TestEventSet_NodeMembers(t *testing.T) {
	x := probtex.Declare("x")
	set := probtex.NewEventSet(x, probtex.Pr("rain"), symbolic.S("y"))
	descs := make([]string, 0, set.Len())
	for _, e := range set.Events() {
		descs = append(descs, e.Desc())
	}
	assert.Equal(t, []string{"x", `\Pr(\,\text{rain}\,)`, "y"}, descs)

	var missing *probtex.Event
	assert.Len(t, probtex.Problems(probtex.NewEventSet(missing)), 1)
}

func TestEventSet_EventsIsCopy(t *testing.T) {
	s := probtex.NewEventSet("a")
	evs := s.Events()
	evs[0] = probtex.NewEvent("z")
	assert.True(t, s.Contains("a"))
}

// ============================================================
// Binary / Power
// ============================================================

func TestBinary_Operators(t *testing.T) {
	assert.Equal(t, "1 + 2", probtex.Render(probtex.Plus(1, 2)))
	assert.Equal(t, "1 - 2", probtex.Render(probtex.Minus(1, 2)))
	assert.Equal(t, `1 \times 2`, probtex.Render(probtex.Times(1, 2)))
}

func TestBinary_ParenthesizesNestedBinaries(t *testing.T) {
	left := probtex.Times(probtex.Plus(1, 2), 3)
	assert.Equal(t, `(1 + 2) \times 3`, probtex.Render(left))

	both := probtex.Plus(probtex.Plus(1, 2), probtex.Times(3, 4))
	assert.Equal(t, `(1 + 2) + (3 \times 4)`, probtex.Render(both))
}

func TestBinary_DefinitionOperand(t *testing.T) {
	y := probtex.Def("y", probtex.Plus(1, 2))
	expr := probtex.Times(y, 3)
	assert.Equal(t, `y \times 3`, probtex.Render(expr))
	assert.Equal(t, `(1 + 2) \times 3`, probtex.RenderMode(expr, probtex.SubstituteMode()))
}

func TestBinary_SymbolicLeaves(t *testing.T) {
	p := symbolic.S("p")
	expr := probtex.Plus(p, symbolic.F(1, 2))
	assert.Equal(t, `p + \frac{1}{2}`, probtex.Render(expr))
}

func TestPower(t *testing.T) {
	assert.Equal(t, `{\Pr(\,\text{rain}\,)}^{2}`, probtex.Render(probtex.Raise(probtex.Pr("rain"), 2)))
	assert.Equal(t, `{x}^{n}`, probtex.Render(probtex.Raise(probtex.Declare("x"), symbolic.S("n"))))
}

func TestPower_UnitExponent(t *testing.T) {
	assert.Equal(t, "x", probtex.Render(probtex.Raise(probtex.Declare("x"), 1)))
	assert.Equal(t, "x", probtex.Render(probtex.Raise(probtex.Declare("x"), symbolic.N(1))))
}

func TestPower_DoesNotModifyOperand(t *testing.T) {
	pr := probtex.Pr("rain")
	_ = probtex.Raise(pr, 3)
	assert.Equal(t, `\Pr(\,\text{rain}\,)`, probtex.Render(pr))
}

func TestPower_ParenthesizesBinaryBase(t *testing.T) {
	a, b, c := symbolic.S("a"), symbolic.S("b"), symbolic.S("c")
	squared := probtex.Raise(probtex.Plus(a, b), 2)
	assert.Equal(t, `{(a + b)}^{2}`, probtex.Render(squared))
	assert.Equal(t, `{(a + b)}^{2} + c`, probtex.Render(probtex.Plus(squared, c)))
	assert.Equal(t, `(a + b)`, probtex.Render(probtex.Raise(probtex.Plus(a, b), 1)))
}

func TestPower_BinaryDefinitionBase(t *testing.T) {
	s := probtex.Def("s", probtex.Plus(1, 2))
	assert.Equal(t, `{s}^{2}`, probtex.Render(probtex.Raise(s, 2)))
	assert.Equal(t, `{(1 + 2)}^{2}`, probtex.RenderMode(probtex.Raise(s, 2), probtex.SubstituteMode()))
}

func TestPower_OfDefinitionUsesSymbol(t *testing.T) {
	_, _, G := weather()
	assert.Equal(t, `{G}^{2}`, probtex.Render(probtex.Raise(G, 2)))
}

// ============================================================
// Definitions
// ============================================================

func TestDefinition_TopLevel(t *testing.T) {
	E, x, G := weather()
	assert.Equal(t, `E = \{\text{raining},\;\text{sunny}\}`, probtex.Render(E))
	assert.Equal(t, "x", probtex.Render(x))
	assert.Equal(t, `G = \sum_{x \in E} \Pr(\,x\,) + \Pr(\,x\,)`, probtex.Render(G))
}

func TestDefinition_Comment(t *testing.T) {
	p := probtex.Def("p", 0.5, probtex.WithComment("prior & guess"))
	assert.Equal(t, `p = 0.5\quad \text{prior \& guess}`, probtex.Render(p))
	assert.Equal(t, "prior & guess", p.Comment())
}

func TestDefinition_GreekSymbol(t *testing.T) {
	theta := probtex.Def("theta_1", probtex.Pr("heads"))
	assert.Equal(t, `\theta_{1} = \Pr(\,\text{heads}\,)`, probtex.Render(theta))
	assert.Equal(t, "theta_1", theta.Name())
}

func TestDefinition_NestedRendersSymbol(t *testing.T) {
	a := probtex.Def("a", probtex.Plus(1, 2))
	b := probtex.Def("b", probtex.Times(a, 2))
	assert.Equal(t, `b = a \times 2`, probtex.Render(b))
	assert.Equal(t, `b = (1 + 2) \times 2`, probtex.RenderMode(b, probtex.SubstituteMode()))
}

// ============================================================
// Probability
// ============================================================

func TestProbability(t *testing.T) {
	assert.Equal(t, `\Pr(\,\text{rain}\,)`, probtex.Render(probtex.Pr("rain")))
	assert.Equal(t, `\Pr(\,\text{rain} \mid \text{cloudy}\,)`, probtex.Render(probtex.PrGiven("rain", "cloudy")))
}

func TestProbability_DefinitionOperandsUseSymbol(t *testing.T) {
	E, _, _ := weather()
	c := probtex.Def("C", probtex.NewEvent("cloudy"))
	p := probtex.PrGiven(E, c)
	assert.True(t, p.Conditional())
	assert.Equal(t, `\Pr(\,E \mid C\,)`, probtex.Render(p))
	assert.Equal(t, `\Pr(\,E \mid C\,)`, probtex.RenderMode(p, probtex.SubstituteMode()))
}

// ============================================================
// TallBrace
// ============================================================

func TestTallBrace(t *testing.T) {
	tb := probtex.Cases(
		probtex.NewCase(1, "x > 0"),
		probtex.NewCase(probtex.Pr("rain"), probtex.NewEvent("cloudy")),
		probtex.Otherwise(0),
	)
	want := `\left\{ \begin{array}{ll} 1 & \text{if x > 0} \\ ` +
		`\Pr(\,\text{rain}\,) & \text{if } \text{cloudy} \\ ` +
		`0 & \text{otherwise} \end{array} \right.`
	assert.Equal(t, want, probtex.Render(tb))
}

func TestTallBrace_HeterogeneousRows(t *testing.T) {
	tb := probtex.Cases(probtex.NewEvent("a"), "b", symbolic.S("alpha"))
	assert.Equal(t, `\left\{ \begin{array}{ll} \text{a} \\ \mathtt{\text{b}} \\ \alpha \end{array} \right.`, probtex.Render(tb))
}

// ============================================================
// Raw values and malformed trees
// ============================================================

func TestRender_RawValues(t *testing.T) {
	assert.Equal(t, "3", probtex.Render(3))
	assert.Equal(t, `\mathtt{\text{hello}}`, probtex.Render("hello"))
}

func TestRender_NilLeaves(t *testing.T) {
	var (
		rat *big.Rat
		num *symbolic.Num
		sym *symbolic.Sym
	)
	assert.Equal(t, `\emptyset`, probtex.Render(rat))
	assert.Equal(t, `\emptyset`, probtex.Render(num))
	assert.Equal(t, `{1}^{\emptyset}`, probtex.Render(probtex.Raise(1, num)))
	assert.Equal(t, `\emptyset + 1`, probtex.Render(probtex.Plus(sym, 1)))

	problems := probtex.Problems(probtex.Plus(sym, probtex.Raise(1, num)))
	assert.Len(t, problems, 2)
	assert.ErrorIs(t, probtex.Validate(rat), probtex.ErrMissingOperand)
}

func TestRender_NilNodesArePlaceholders(t *testing.T) {
	var missing *probtex.Probability
	assert.Equal(t, `\square`, probtex.Render(missing))
	assert.Equal(t, `\square + 1`, probtex.Render(probtex.Plus(missing, 1)))
}

// ============================================================
// Display
// ============================================================

type recorder struct{ bundles []probtex.MIME }

func (r *recorder) Display(b probtex.MIME) error {
	r.bundles = append(r.bundles, b)
	return nil
}

func TestDisplay_Writer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, probtex.Display(&buf, probtex.Pr("rain")))
	assert.Equal(t, `\[\Pr(\,\text{rain}\,)\]`+"\n", buf.String())
}

func TestShow_MIMEBundle(t *testing.T) {
	rec := &recorder{}
	require.NoError(t, probtex.Show(rec, probtex.Plus(1, 2)))
	require.Len(t, rec.bundles, 1)
	assert.Equal(t, `\[1 + 2\]`, rec.bundles[0]["text/latex"])
	assert.Equal(t, "1 + 2", rec.bundles[0]["text/plain"])
}

func TestJSONDisplayer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, probtex.Show(probtex.JSONDisplayer{W: &buf}, probtex.NewEvent("a")))
	assert.JSONEq(t, `{"text/latex":"\\[\\text{a}\\]","text/plain":"\\text{a}"}`, buf.String())
}
