package symbolic

import (
	"fmt"
	"math"
	"math/big"
)

// maxExactPower bounds integer exponents that are evaluated exactly.
const maxExactPower = 64

var ratOne = big.NewRat(1, 1)

// Num is an exact rational number.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns p/q. It panics if q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: big.NewRat(p, q)}
}

// NFloat returns the exact value of f. It panics if f is not finite.
func NFloat(f float64) *Num {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(fmt.Sprintf("symbolic: %v has no exact value", f))
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}
}

func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Sign() int             { return n.val.Sign() }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

// Float64 returns the nearest float64 to n.
func (n *Num) Float64() float64 {
	f, _ := n.val.Float64()
	return f
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	abs := new(big.Rat).Abs(n.val)
	sign := ""
	if n.val.Sign() < 0 {
		sign = "-"
	}
	return sign + `\frac{` + abs.Num().String() + `}{` + abs.Denom().String() + `}`
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func (n *Num) add(o *Num) *Num { return &Num{val: new(big.Rat).Add(n.val, o.val)} }
func (n *Num) mul(o *Num) *Num { return &Num{val: new(big.Rat).Mul(n.val, o.val)} }
func (n *Num) neg() *Num       { return &Num{val: new(big.Rat).Neg(n.val)} }

// pow raises n to the integer exponent e. It reports false when e is not
// a small integer or n is zero and e negative.
func (n *Num) pow(e *Num) (*Num, bool) {
	if !e.IsInteger() || !e.val.Num().IsInt64() {
		return nil, false
	}
	k := e.val.Num().Int64()
	if k > maxExactPower || k < -maxExactPower || (k < 0 && n.IsZero()) {
		return nil, false
	}
	abs := big.NewInt(k)
	abs.Abs(abs)
	num := new(big.Int).Exp(n.val.Num(), abs, nil)
	den := new(big.Int).Exp(n.val.Denom(), abs, nil)
	if k < 0 {
		num, den = den, num
	}
	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}
