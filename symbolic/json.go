package symbolic

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrUnknownType is returned by FromJSON for an unrecognised "type" tag.
var ErrUnknownType = errors.New("unknown expression type")

// ToJSON encodes e as a JSON document.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// Encode returns the generic JSON object form of e.
func Encode(e Expr) map[string]interface{} { return e.toJSON() }

// IsTag reports whether typ names one of the expression kinds FromJSON
// understands.
func IsTag(typ string) bool {
	switch typ {
	case "num", "sym", "add", "mul", "pow", "func":
		return true
	}
	return false
}

// Object wraps a decoded JSON object with typed, error-reporting accessors.
// Errors are prefixed with the object's "type" tag.
type Object struct {
	Type string
	data map[string]interface{}
}

// NewObject validates the "type" tag of data.
func NewObject(data map[string]interface{}) (Object, error) {
	if data == nil {
		return Object{}, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return Object{}, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return Object{}, fmt.Errorf("field 'type' must be a non-empty string")
	}
	return Object{Type: typ, data: data}, nil
}

// Has reports whether field is present and not null.
func (o Object) Has(field string) bool {
	v, ok := o.data[field]
	return ok && v != nil
}

// Raw returns the undecoded value of field.
func (o Object) Raw(field string) (interface{}, bool) {
	v, ok := o.data[field]
	return v, ok
}

func (o Object) Obj(field string) (map[string]interface{}, error) {
	v, ok := o.data[field]
	if !ok {
		return nil, fmt.Errorf("%s: missing %q", o.Type, field)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %q must be an object", o.Type, field)
	}
	return m, nil
}

func (o Object) Array(field string) ([]interface{}, error) {
	v, ok := o.data[field]
	if !ok {
		return nil, fmt.Errorf("%s: missing %q", o.Type, field)
	}
	switch raw := v.(type) {
	case []interface{}:
		return raw, nil
	case []map[string]interface{}:
		// Encode output that has not been through encoding/json.
		out := make([]interface{}, len(raw))
		for i, m := range raw {
			out[i] = m
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: %q must be an array", o.Type, field)
}

func (o Object) ObjArray(field string) ([]map[string]interface{}, error) {
	raw, err := o.Array(field)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, len(raw))
	for i, it := range raw {
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q[%d] must be an object", o.Type, field, i)
		}
		out[i] = m
	}
	return out, nil
}

func (o Object) Str(field string) (string, error) {
	v, ok := o.data[field]
	if !ok {
		return "", fmt.Errorf("%s: missing %q", o.Type, field)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: %q must be a non-empty string", o.Type, field)
	}
	return s, nil
}

// OptStr returns field as a string, or "" when it is absent.
func (o Object) OptStr(field string) (string, error) {
	v, ok := o.data[field]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %q must be a string", o.Type, field)
	}
	return s, nil
}

// FromJSON decodes the generic object form produced by Encode.
func FromJSON(data map[string]interface{}) (Expr, error) {
	o, err := NewObject(data)
	if err != nil {
		return nil, err
	}

	switch o.Type {
	case "num":
		val, err := o.Str("value")
		if err != nil {
			return nil, err
		}
		r := new(big.Rat)
		if _, ok := r.SetString(val); !ok {
			return nil, fmt.Errorf("invalid num value: %s", val)
		}
		return &Num{val: r}, nil

	case "sym":
		name, err := o.Str("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "add", "mul":
		field := "terms"
		if o.Type == "mul" {
			field = "factors"
		}
		objs, err := o.ObjArray(field)
		if err != nil {
			return nil, err
		}
		parts := make([]Expr, len(objs))
		for i, m := range objs {
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", o.Type, field, i, err)
			}
			parts[i] = e
		}
		if o.Type == "mul" {
			return MulOf(parts...), nil
		}
		return AddOf(parts...), nil

	case "pow":
		baseM, err := o.Obj("base")
		if err != nil {
			return nil, err
		}
		expM, err := o.Obj("exp")
		if err != nil {
			return nil, err
		}
		base, err := FromJSON(baseM)
		if err != nil {
			return nil, fmt.Errorf("pow: base: %w", err)
		}
		exp, err := FromJSON(expM)
		if err != nil {
			return nil, fmt.Errorf("pow: exp: %w", err)
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := o.Str("name")
		if err != nil {
			return nil, err
		}
		argM, err := o.Obj("arg")
		if err != nil {
			return nil, err
		}
		arg, err := FromJSON(argM)
		if err != nil {
			return nil, fmt.Errorf("func: arg: %w", err)
		}
		return FuncOf(name, arg), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, o.Type)
}
