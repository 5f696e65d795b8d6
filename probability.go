package probtex

// ============================================================
// Probability — Pr(event) and Pr(event | condition)
// ============================================================

// Probability is Pr(event) or, with a condition, Pr(event | condition).
// Definitions used as operands always render as their symbol.
type Probability struct {
	event     any
	condition any
}

// Pr returns Pr(event). A string event becomes an Event.
func Pr(event any) *Probability { return &Probability{event: asEvent(event)} }

// PrGiven returns Pr(event | condition). String operands become Events.
func PrGiven(event, condition any) *Probability {
	return &Probability{event: asEvent(event), condition: asEvent(condition)}
}

func (p *Probability) Event() any     { return p.event }
func (p *Probability) Condition() any { return p.condition }

// Conditional reports whether p has a condition.
func (p *Probability) Conditional() bool { return p.condition != nil }

func (p *Probability) LaTeX(Mode) string {
	m := SymbolMode()
	if p.condition == nil {
		return `\Pr(\,` + toLaTeX(p.event, m) + `\,)`
	}
	return `\Pr(\,` + toLaTeX(p.event, m) + ` \mid ` + toLaTeX(p.condition, m) + `\,)`
}

func (p *Probability) Children() []any {
	if p.condition == nil {
		return []any{p.event}
	}
	return []any{p.event, p.condition}
}

func (p *Probability) mapChildren(fn func(any) any) Displayable {
	out := &Probability{event: fn(p.event)}
	if p.condition != nil {
		out.condition = fn(p.condition)
	}
	return out
}

func (p *Probability) nodeType() string { return "probability" }

func (p *Probability) toJSON(enc *encoder) (map[string]interface{}, error) {
	ev, err := enc.value(p.event)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{"type": "probability", "event": ev}
	if p.condition != nil {
		cond, err := enc.value(p.condition)
		if err != nil {
			return nil, err
		}
		out["condition"] = cond
	}
	return out, nil
}
