package jsonvalue

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	smithydocument "github.com/aws/smithy-go/document"
)

// ToDocument converts v into a Bedrock document. Integral numbers are passed
// as int64 so the backend sees integers, not 3.0.
func ToDocument(v Value) document.Interface {
	return document.NewLazyDocument(v.Any())
}

// FromDocument converts a Bedrock document into a Value. A nil document is Null.
func FromDocument(doc document.Interface) (Value, error) {
	if doc == nil {
		return NullValue(), nil
	}
	b, err := doc.MarshalSmithyDocument()
	if err != nil {
		return Value{}, fmt.Errorf("marshal document: %w", err)
	}
	return Decode(b)
}

// Any returns v as plain Go values: nil, bool, int64 or float64, string,
// []any and map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		if i, ok := integral(v.n); ok {
			return i
		}
		return v.n
	case String:
		return v.s
	case Array:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Any()
		}
		return items
	case Object:
		fields := make(map[string]any, len(v.obj))
		for k, fv := range v.obj {
			fields[k] = fv.Any()
		}
		return fields
	default:
		return nil
	}
}

// FromAny builds a Value from the shapes produced by encoding/json and by the
// smithy document decoder.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case float64:
		return NumberValue(x), nil
	case float32:
		return NumberValue(float64(x)), nil
	case int:
		return NumberValue(float64(x)), nil
	case int32:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q: %w", ErrMalformed, x, err)
		}
		return NumberValue(f), nil
	case smithydocument.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q: %w", ErrMalformed, x, err)
		}
		return NumberValue(f), nil
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %v: %w", ErrMalformed, x, err)
		}
		return NumberValue(f), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			parsed, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = parsed
		}
		return ArrayValue(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			parsed, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = parsed
		}
		return ObjectValue(fields), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrMalformed, raw)
	}
}
