package gomap

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/jsonquill/jsonquill/ir"
)

var (
	nodePtrType = reflect.TypeOf((*ir.Node)(nil))
	bigIntType  = reflect.TypeOf(big.Int{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// FromNode fills dst, which must be a non-nil pointer, from a tree
// node. Null nodes zero the destination.
func FromNode(n *ir.Node, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &UnmarshalError{Message: fmt.Sprintf("destination %T must be a non-nil pointer", dst)}
	}
	return fromNode(n, rv.Elem(), "$")
}

func fromNode(n *ir.Node, rv reflect.Value, path string) error {
	if n == nil {
		n = ir.Null()
	}
	switch rv.Type() {
	case nodePtrType:
		rv.Set(reflect.ValueOf(n))
		return nil
	case bigIntType:
		if n.Type != ir.IntType {
			return typeErr(path, "integer", n)
		}
		rv.Set(reflect.ValueOf(*new(big.Int).Set(n.Int)))
		return nil
	case decimalType:
		switch n.Type {
		case ir.DecimalType:
			rv.Set(reflect.ValueOf(n.Decimal))
		case ir.IntType:
			rv.Set(reflect.ValueOf(decimal.NewFromBigInt(n.Int, 0)))
		case ir.FloatType:
			if math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
				return &UnmarshalError{FieldPath: path, Message: "non-finite number does not fit a decimal"}
			}
			rv.Set(reflect.ValueOf(decimal.NewFromFloat(n.Float64)))
		default:
			return typeErr(path, "number", n)
		}
		return nil
	}
	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported destination type %s", rv.Type())}
		}
		a := ToAny(n)
		if a == nil {
			rv.SetZero()
		} else {
			rv.Set(reflect.ValueOf(a))
		}
		return nil
	case reflect.Pointer:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return fromNode(n, rv.Elem(), path)
	case reflect.Bool:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.BoolType {
			return typeErr(path, "bool", n)
		}
		rv.SetBool(n.Bool)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.IntType {
			return typeErr(path, "integer", n)
		}
		if !n.Int.IsInt64() || rv.OverflowInt(n.Int.Int64()) {
			return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("%s overflows %s", n.Int, rv.Type())}
		}
		rv.SetInt(n.Int.Int64())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.IntType {
			return typeErr(path, "integer", n)
		}
		if !n.Int.IsUint64() || rv.OverflowUint(n.Int.Uint64()) {
			return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("%s overflows %s", n.Int, rv.Type())}
		}
		rv.SetUint(n.Int.Uint64())
		return nil
	case reflect.Float32, reflect.Float64:
		switch n.Type {
		case ir.NullType:
			rv.SetZero()
		case ir.FloatType:
			rv.SetFloat(n.Float64)
		case ir.IntType:
			f, _ := new(big.Float).SetInt(n.Int).Float64()
			rv.SetFloat(f)
		case ir.DecimalType:
			rv.SetFloat(n.Decimal.InexactFloat64())
		default:
			return typeErr(path, "number", n)
		}
		return nil
	case reflect.String:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.StringType {
			return typeErr(path, "string", n)
		}
		rv.SetString(n.String)
		return nil
	case reflect.Slice:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.ArrayType {
			return typeErr(path, "array", n)
		}
		out := reflect.MakeSlice(rv.Type(), len(n.Values), len(n.Values))
		for i, v := range n.Values {
			if err := fromNode(v, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Map:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.ObjectType {
			return typeErr(path, "object", n)
		}
		if rv.Type().Key().Kind() != reflect.String {
			return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported map key type %s", rv.Type().Key())}
		}
		out := reflect.MakeMapWithSize(rv.Type(), len(n.Fields))
		for i := range n.Fields {
			ev := reflect.New(rv.Type().Elem()).Elem()
			key := n.Fields[i].String
			if err := fromNode(n.Values[i], ev, path+"."+key); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()), ev)
		}
		rv.Set(out)
		return nil
	case reflect.Struct:
		if n.Type == ir.NullType {
			rv.SetZero()
			return nil
		}
		if n.Type != ir.ObjectType {
			return typeErr(path, "object", n)
		}
		t := rv.Type()
		byName := map[string]int{}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, skip := fieldName(f)
			if skip {
				continue
			}
			byName[name] = i
		}
		for i := range n.Fields {
			key := n.Fields[i].String
			fi, ok := byName[key]
			if !ok {
				continue
			}
			if err := fromNode(n.Values[i], rv.Field(fi), path+"."+key); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported destination type %s", rv.Type())}
	}
}

func typeErr(path, want string, n *ir.Node) error {
	return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("expected %s, got %s", want, n.Type)}
}
