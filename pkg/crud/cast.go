package crud

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	objectIDType = reflect.TypeOf(bson.ObjectID{})
	dateTimeType = reflect.TypeOf(bson.DateTime(0))
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// operators whose operand is a list of field values
var listOperators = map[string]struct{}{
	"$in":  {},
	"$nin": {},
	"$all": {},
}

// operators whose operand is a single field value
var valueOperators = map[string]struct{}{
	"$eq":  {},
	"$ne":  {},
	"$gt":  {},
	"$gte": {},
	"$lt":  {},
	"$lte": {},
}

// castCondition casts a filter value: either a plain value or an operator
// document.
func castCondition(path string, typ reflect.Type, value any) (any, error) {
	doc, ok := asDocument(value)
	if !ok || !isOperatorDocument(doc) {
		if isSlice(typ) {
			if _, isList := asList(value); !isList {
				return castValue(path, derefElem(typ), value)
			}
		}
		return castValue(path, typ, value)
	}

	elem := typ
	if isSlice(typ) {
		elem = derefElem(typ)
	}

	out := make(bson.M, len(doc))
	for op, operand := range doc {
		switch {
		case op == "$exists":
			b, err := castValue(path, reflect.TypeOf(true), operand)
			if err != nil {
				return nil, err
			}
			out[op] = b
		case inSet(listOperators, op):
			list, ok := asList(operand)
			if !ok {
				list = bson.A{operand}
			}
			cast := make(bson.A, 0, len(list))
			for _, item := range list {
				c, err := castValue(path, elem, item)
				if err != nil {
					return nil, err
				}
				cast = append(cast, c)
			}
			out[op] = cast
		case inSet(valueOperators, op):
			c, err := castValue(path, elem, operand)
			if err != nil {
				return nil, err
			}
			out[op] = c
		default:
			out[op] = operand
		}
	}
	return out, nil
}

// castValue converts value to the representation stored for typ.
func castValue(path string, typ reflect.Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	switch typ {
	case objectIDType:
		return castObjectID(path, value)
	case timeType, dateTimeType:
		return castDate(path, value)
	}

	switch typ.Kind() {
	case reflect.String:
		switch v := value.(type) {
		case string:
			return v, nil
		case bool, float64, float32, int, int32, int64:
			return fmt.Sprint(v), nil
		}
		return nil, &CastError{Path: path, Value: value, Kind: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := toFloat(value)
		if !ok || n != math.Trunc(n) {
			return nil, &CastError{Path: path, Value: value, Kind: "Number"}
		}
		return int64(n), nil

	case reflect.Float32, reflect.Float64:
		n, ok := toFloat(value)
		if !ok {
			return nil, &CastError{Path: path, Value: value, Kind: "Number"}
		}
		return n, nil

	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "1", "yes":
				return true, nil
			case "false", "0", "no":
				return false, nil
			}
		case float64:
			return v != 0, nil
		}
		return nil, &CastError{Path: path, Value: value, Kind: "Boolean"}

	case reflect.Slice, reflect.Array:
		list, ok := asList(value)
		if !ok {
			return castValue(path, typ.Elem(), value)
		}
		out := make(bson.A, 0, len(list))
		for _, item := range list {
			c, err := castValue(path, typ.Elem(), item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil

	case reflect.Struct:
		doc, ok := asDocument(value)
		if !ok {
			return nil, &CastError{Path: path, Value: value, Kind: "Embedded"}
		}
		fields := structFields(typ)
		out := make(bson.M, len(doc))
		for k, v := range doc {
			f, ok := fields[k]
			if !ok {
				continue
			}
			c, err := castValue(path+"."+k, f.typ, v)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	}

	return value, nil
}

func castObjectID(path string, value any) (any, error) {
	switch v := value.(type) {
	case bson.ObjectID:
		return v, nil
	case string:
		id, err := ParseID(v)
		if err != nil {
			return nil, &CastError{Path: path, Value: v, Kind: "ObjectId"}
		}
		return id, nil
	}
	return nil, &CastError{Path: path, Value: value, Kind: "ObjectId"}
}

func castDate(path string, value any) (any, error) {
	switch v := value.(type) {
	case bson.DateTime:
		return v, nil
	case time.Time:
		return bson.NewDateTimeFromTime(v), nil
	case float64:
		return bson.DateTime(int64(v)), nil
	case int64:
		return bson.DateTime(v), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return bson.NewDateTimeFromTime(t), nil
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return bson.DateTime(ms), nil
		}
	}
	return nil, &CastError{Path: path, Value: value, Kind: "date"}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func asDocument(v any) (map[string]any, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return d, true
	case bson.D:
		m := make(map[string]any, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case bson.A:
		return l, true
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func isOperatorDocument(doc map[string]any) bool {
	if len(doc) == 0 {
		return false
	}
	for k := range doc {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}

func isSlice(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() != reflect.Uint8
}

func derefElem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if isSlice(t) {
		t = t.Elem()
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
	}
	return t
}

func inSet(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
