package probtex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// JSON documents
// ============================================================
//
// A document holds a root expression and a table of definitions. Nodes
// refer to definitions by name, so a definition shared by several nodes
// stays shared after a round trip:
//
//	{
//	  "definitions": {
//	    "E": {"rhs": {"type": "event_set", "events": ["raining", "sunny"]}},
//	    "x": {}
//	  },
//	  "root": {"type": "probability", "event": {"type": "ref", "name": "x"}}
//	}

var (
	// ErrUnknownNodeType is returned when decoding an unrecognised "type".
	ErrUnknownNodeType = errors.New("unknown node type")
	// ErrUnencodable is returned when a tree holds a value with no JSON form.
	ErrUnencodable = errors.New("value cannot be encoded")
	// ErrUndefinedRef is returned for a reference to a name missing from the
	// definitions table.
	ErrUndefinedRef = errors.New("reference to undefined name")
)

// Document is a decoded expression together with its named definitions.
type Document struct {
	Root        any
	Definitions map[string]*Definition
}

// Definition returns the definition named name.
func (d *Document) Definition(name string) (*Definition, bool) {
	def, ok := d.Definitions[name]
	return def, ok
}

// Lookup resolves names of definitions that have a right-hand side. It is
// suitable as the Lookup of an Evaluation.
func (d *Document) Lookup(name string) (any, bool) {
	def, ok := d.Definitions[name]
	if !ok || def.rhs == nil {
		return nil, false
	}
	return def, true
}

// RootDefinition returns the root when it is a definition.
func (d *Document) RootDefinition() (*Definition, bool) {
	def, ok := d.Root.(*Definition)
	return def, ok && def != nil
}

// MarshalDocument encodes root and every definition reachable from it.
func MarshalDocument(root any) ([]byte, error) {
	doc, err := EncodeDocument(root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// EncodeDocument returns the generic JSON object form of root.
func EncodeDocument(root any) (map[string]interface{}, error) {
	enc := &encoder{defs: map[string]interface{}{}, byName: map[string]*Definition{}}
	r, err := enc.value(root)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{"root": r}
	if len(enc.defs) > 0 {
		doc["definitions"] = enc.defs
	}
	return doc, nil
}

// UnmarshalDocument decodes a JSON document.
func UnmarshalDocument(data []byte) (*Document, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return DecodeDocument(m)
}

// DecodeDocument decodes the generic object form of a document.
func DecodeDocument(data map[string]interface{}) (*Document, error) {
	if data == nil {
		return nil, fmt.Errorf("document must be an object")
	}
	doc := &Document{Definitions: map[string]*Definition{}}
	dec := &decoder{doc: doc}

	var table map[string]interface{}
	if raw, ok := data["definitions"]; ok && raw != nil {
		table, ok = raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("'definitions' must be an object")
		}
	}
	names := make([]string, 0, len(table))
	for name := range table {
		if name == "" {
			return nil, fmt.Errorf("definition name must be non-empty")
		}
		names = append(names, name)
		doc.Definitions[name] = &Definition{lhs: symbolic.S(name)}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := dec.definition(doc.Definitions[name], table[name]); err != nil {
			return nil, fmt.Errorf("definition %s: %w", name, err)
		}
	}

	raw, ok := data["root"]
	if !ok {
		return nil, fmt.Errorf("missing 'root' field")
	}
	root, err := dec.value(raw)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	doc.Root = root
	return doc, nil
}

// ============================================================
// Encoder
// ============================================================

type encoder struct {
	defs   map[string]interface{}
	byName map[string]*Definition
}

// define records d in the definitions table and returns its name.
func (enc *encoder) define(d *Definition) (string, error) {
	name := d.Name()
	if name == "" {
		return "", fmt.Errorf("%w: definition of %s is not bound to a symbol", ErrUnencodable, symbolic.Latex(d.lhs))
	}
	if existing, ok := enc.byName[name]; ok {
		if existing != d {
			return "", fmt.Errorf("%w: two different definitions named %s", ErrUnencodable, name)
		}
		return name, nil
	}
	enc.byName[name] = d
	entry := map[string]interface{}{}
	enc.defs[name] = entry
	if d.comment != "" {
		entry["comment"] = d.comment
	}
	if d.rhs != nil {
		rhs, err := enc.value(d.rhs)
		if err != nil {
			return "", fmt.Errorf("definition %s: %w", name, err)
		}
		entry["rhs"] = rhs
	}
	return name, nil
}

func (enc *encoder) value(v any) (interface{}, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Displayable:
		if isNilNode(x) {
			return nil, fmt.Errorf("%w: nil %s", ErrUnencodable, x.nodeType())
		}
		return x.toJSON(enc)
	case symbolic.Expr:
		if symbolic.IsNil(x) {
			return nil, fmt.Errorf("%w: nil %T", ErrUnencodable, x)
		}
		return symbolic.Encode(x), nil
	case string:
		return map[string]interface{}{"type": "text", "value": x}, nil
	case bool:
		return map[string]interface{}{"type": "bool", "value": x}, nil
	case float32:
		return map[string]interface{}{"type": "float", "value": float64(x)}, nil
	case float64:
		return map[string]interface{}{"type": "float", "value": x}, nil
	}
	if e, ok := symbolic.ToExpr(v); ok {
		return symbolic.Encode(e), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnencodable, v)
}

// ============================================================
// Decoder
// ============================================================

type decoder struct{ doc *Document }

func (dec *decoder) definition(d *Definition, raw interface{}) error {
	if raw == nil {
		return nil
	}
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return fmt.Errorf("entry must be an object")
	}
	if c, ok := entry["comment"]; ok && c != nil {
		s, ok := c.(string)
		if !ok {
			return fmt.Errorf("'comment' must be a string")
		}
		d.comment = s
	}
	if rhs, ok := entry["rhs"]; ok && rhs != nil {
		v, err := dec.value(rhs)
		if err != nil {
			return fmt.Errorf("rhs: %w", err)
		}
		d.rhs = v
	}
	return nil
}

func (dec *decoder) value(raw interface{}) (any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case bool:
		return x, nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return symbolic.N(int64(x)), nil
		}
		return x, nil
	case map[string]interface{}:
		return dec.node(x)
	}
	return nil, fmt.Errorf("unexpected JSON value %T", raw)
}

func (dec *decoder) field(o symbolic.Object, name string) (any, error) {
	raw, ok := o.Raw(name)
	if !ok {
		return nil, fmt.Errorf("%s: missing %q", o.Type, name)
	}
	v, err := dec.value(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", o.Type, name, err)
	}
	return v, nil
}

func (dec *decoder) optField(o symbolic.Object, name string) (any, error) {
	if !o.Has(name) {
		return nil, nil
	}
	return dec.field(o, name)
}

func (dec *decoder) node(data map[string]interface{}) (any, error) {
	o, err := symbolic.NewObject(data)
	if err != nil {
		return nil, err
	}
	if symbolic.IsTag(o.Type) {
		return symbolic.FromJSON(data)
	}

	switch o.Type {
	case "text":
		raw, _ := o.Raw("value")
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("text: 'value' must be a string")
		}
		return s, nil

	case "bool":
		raw, _ := o.Raw("value")
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("bool: 'value' must be a boolean")
		}
		return b, nil

	case "float":
		raw, _ := o.Raw("value")
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("float: 'value' must be a number")
		}
		return f, nil

	case "event":
		desc, err := o.Str("desc")
		if err != nil {
			return nil, err
		}
		return NewEvent(desc), nil

	case "event_set":
		raw, err := o.Array("events")
		if err != nil {
			return nil, err
		}
		items := make([]any, len(raw))
		for i, it := range raw {
			v, err := dec.value(it)
			if err != nil {
				return nil, fmt.Errorf("event_set: events[%d]: %w", i, err)
			}
			if d, ok := v.(Displayable); ok {
				if _, isEvent := d.(*Event); !isEvent {
					return nil, fmt.Errorf("event_set: events[%d]: want an event, got %s", i, describe(v))
				}
			}
			items[i] = v
		}
		return NewEventSet(items...), nil

	case "binary":
		op, err := o.Str("op")
		if err != nil {
			return nil, err
		}
		if !Op(op).Valid() {
			return nil, fmt.Errorf("binary: %w %q", ErrUnknownOp, op)
		}
		l, err := dec.field(o, "left")
		if err != nil {
			return nil, err
		}
		r, err := dec.field(o, "right")
		if err != nil {
			return nil, err
		}
		return NewBinary(l, Op(op), r), nil

	case "power":
		base, err := dec.field(o, "base")
		if err != nil {
			return nil, err
		}
		exp, err := dec.field(o, "exp")
		if err != nil {
			return nil, err
		}
		return Raise(base, exp), nil

	case "probability":
		ev, err := dec.field(o, "event")
		if err != nil {
			return nil, err
		}
		cond, err := dec.optField(o, "condition")
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return Pr(ev), nil
		}
		return PrGiven(ev, cond), nil

	case "sum":
		name, err := o.Str("var")
		if err != nil {
			return nil, err
		}
		summand, err := dec.field(o, "summand")
		if err != nil {
			return nil, err
		}
		set, err := dec.field(o, "set")
		if err != nil {
			return nil, err
		}
		return Sum(summand, set, name), nil

	case "tall_brace":
		raw, err := o.Array("rows")
		if err != nil {
			return nil, err
		}
		rows := make([]any, len(raw))
		for i, it := range raw {
			v, err := dec.value(it)
			if err != nil {
				return nil, fmt.Errorf("tall_brace: rows[%d]: %w", i, err)
			}
			rows[i] = v
		}
		return Cases(rows...), nil

	case "case":
		value, err := dec.field(o, "value")
		if err != nil {
			return nil, err
		}
		cond, err := dec.optField(o, "condition")
		if err != nil {
			return nil, err
		}
		return NewCase(value, cond), nil

	case "ref":
		name, err := o.Str("name")
		if err != nil {
			return nil, err
		}
		def, ok := dec.doc.Definitions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedRef, name)
		}
		return def, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownNodeType, o.Type)
}
