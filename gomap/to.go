package gomap

import (
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsonquill/jsonquill/ir"
)

// ToNode converts a Go value to a tree node.
func ToNode(v any) (*ir.Node, error) {
	return toNode(reflect.ValueOf(v), "$")
}

func toNode(rv reflect.Value, path string) (*ir.Node, error) {
	if !rv.IsValid() {
		return ir.Null(), nil
	}
	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case *ir.Node:
			if v == nil {
				return ir.Null(), nil
			}
			return v, nil
		case ir.Node:
			n := v
			return &n, nil
		case *big.Int:
			if v == nil {
				return ir.Null(), nil
			}
			return ir.FromBigInt(new(big.Int).Set(v)), nil
		case big.Int:
			return ir.FromBigInt(new(big.Int).Set(&v)), nil
		case decimal.Decimal:
			return ir.FromDecimal(v), nil
		case []byte:
			return ir.FromString(string(v)), nil
		}
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return toNode(rv.Elem(), path)
	case reflect.Bool:
		return ir.FromBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.FromBigInt(new(big.Int).SetUint64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(rv.Float()), nil
	case reflect.String:
		return ir.FromString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		res := ir.FromSlice(nil)
		for i := 0; i < rv.Len(); i++ {
			v, err := toNode(rv.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			res.AppendValue(v)
		}
		return res, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("unsupported map key type %s", rv.Type().Key()),
			}
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		res := &ir.Node{Type: ir.ObjectType}
		for _, k := range keys {
			kv := reflect.ValueOf(k).Convert(rv.Type().Key())
			v, err := toNode(rv.MapIndex(kv), path+"."+k)
			if err != nil {
				return nil, err
			}
			res.SetKey(k, v)
		}
		return res, nil
	case reflect.Struct:
		res := &ir.Node{Type: ir.ObjectType}
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, skip := fieldName(f)
			if skip {
				continue
			}
			v, err := toNode(rv.Field(i), path+"."+name)
			if err != nil {
				return nil, err
			}
			res.SetKey(name, v)
		}
		return res, nil
	default:
		return nil, &MarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("unsupported type %s", rv.Type()),
		}
	}
}

// fieldName resolves the tree key for a struct field from its json tag.
func fieldName(f reflect.StructField) (name string, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, false
	}
	name, _, _ = strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		return f.Name, false
	}
	return name, false
}
