package symbolic

// Func is a named function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

func FuncOf(name string, arg Expr) Expr { return (&Func{name: name, arg: arg}).Simplify() }

func ExpOf(arg Expr) Expr  { return FuncOf("exp", arg) }
func LnOf(arg Expr) Expr   { return FuncOf("ln", arg) }
func SqrtOf(arg Expr) Expr { return FuncOf("sqrt", arg) }

// inverses pairs functions that cancel when composed.
var inverses = map[string]string{"exp": "ln", "ln": "exp"}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if inner, ok := arg.(*Func); ok && inverses[f.name] == inner.name {
		return inner.arg
	}
	if n, ok := arg.(*Num); ok {
		switch {
		case f.name == "exp" && n.IsZero():
			return N(1)
		case f.name == "ln" && n.IsOne():
			return N(0)
		case f.name == "sqrt" && (n.IsZero() || n.IsOne()):
			return n
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "sqrt":
		return `\sqrt{` + arg + `}`
	case "abs":
		return `\left|` + arg + `\right|`
	case "exp", "ln", "log", "sin", "cos", "tan":
		return `\` + f.name + `{\left(` + arg + ` \right)}`
	}
	return `\operatorname{` + EscapeText(f.name) + `}{\left(` + arg + ` \right)}`
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return FuncOf(f.name, f.arg.Sub(varName, value))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}

func (f *Func) Name() string { return f.name }
func (f *Func) Arg() Expr    { return f.arg }
