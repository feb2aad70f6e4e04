package eval

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"

	"github.com/valyala/fastjson"
)

// Record maps field names to the values a rule is evaluated against.
type Record map[string]Value

// Merge returns a copy of r with every field of defaults that r lacks.
func (r Record) Merge(defaults Record) Record {
	out := make(Record, len(r)+len(defaults))
	maps.Copy(out, defaults)
	maps.Copy(out, r)

	return out
}

// Alias returns a copy of r where every field named by a key of aliases
// that r lacks takes the value of the field the key maps to, when r has it.
func (r Record) Alias(aliases map[string]string) Record {
	out := maps.Clone(r)
	if out == nil {
		out = make(Record, len(aliases))
	}

	for field, source := range aliases {
		if _, ok := r[field]; ok {
			continue
		}

		if v, ok := r[source]; ok {
			out[field] = v
		}
	}

	return out
}

// RecordFromMap converts plain Go values. nil entries are dropped so the
// field falls back to its literal name, like any missing field.
func RecordFromMap(m map[string]any) (Record, error) {
	r := make(Record, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}

		val, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", k, err)
		}

		r[k] = val
	}

	return r, nil
}

// ValueOf wraps a Go boolean, number or string.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return unsigned(uint64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return unsigned(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	}

	return Value{}, fmt.Errorf("unsupported value type %T", v)
}

// unsigned keeps integers above math.MaxInt64 as floats instead of letting
// them wrap negative.
func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}

	return Int(int64(u))
}

var recordParsers fastjson.ParserPool

// ParseRecord decodes a JSON object into a Record. Integral numbers become
// Int, other numbers Float; nulls are dropped.
func ParseRecord(data []byte) (Record, error) {
	p := recordParsers.Get()
	defer recordParsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	o, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	r := make(Record, o.Len())
	o.Visit(func(key []byte, fv *fastjson.Value) {
		if err != nil {
			return
		}

		var val Value
		var ok bool
		val, ok, err = jsonValue(fv)
		if err != nil {
			err = fmt.Errorf("parse record: field '%s': %w", key, err)
			return
		}

		if ok {
			r[string(key)] = val
		}
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func jsonValue(v *fastjson.Value) (Value, bool, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return Value{}, false, nil
	case fastjson.TypeTrue:
		return Bool(true), true, nil
	case fastjson.TypeFalse:
		return Bool(false), true, nil
	case fastjson.TypeString:
		return String(string(v.GetStringBytes())), true, nil
	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return Int(i), true, nil
		}

		f, err := v.Float64()
		if err != nil {
			return Value{}, false, err
		}

		return Float(f), true, nil
	}

	return Value{}, false, fmt.Errorf("unsupported json type %s", v.Type())
}
