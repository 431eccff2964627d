package crud

import (
	"bytes"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// value categories in MongoDB sort order
const (
	rankNull = iota
	rankNumber
	rankString
	rankObject
	rankArray
	rankObjectID
	rankBool
	rankDate
	rankOther
)

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankNull
	case int, int32, int64, float32, float64:
		return rankNumber
	case string:
		return rankString
	case bson.M, map[string]any, bson.D:
		return rankObject
	case bson.A, []any:
		return rankArray
	case bson.ObjectID:
		return rankObjectID
	case bool:
		return rankBool
	case bson.DateTime, time.Time:
		return rankDate
	}
	return rankOther
}

func millis(v any) int64 {
	switch t := v.(type) {
	case bson.DateTime:
		return int64(t)
	case time.Time:
		return t.UnixMilli()
	}
	return 0
}

// compare orders two values of the same category.
// It returns false when the values cannot be compared.
func compare(a, b any) (int, bool) {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return 0, false
	}
	switch ra {
	case rankNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return cmpFloat(x, y), true
	case rankString:
		return strings.Compare(a.(string), b.(string)), true
	case rankObjectID:
		x, y := a.(bson.ObjectID), b.(bson.ObjectID)
		return bytes.Compare(x[:], y[:]), true
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case rankDate:
		x, y := millis(a), millis(b)
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func compareForSort(a, b any) int {
	if c, ok := compare(a, b); ok {
		return c
	}
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	return 0
}

func equal(a, b any) bool {
	if rank(a) == rankNull || rank(b) == rankNull {
		return a == nil && b == nil
	}
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	if la, ok := asList(a); ok {
		lb, ok := asList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	if da, ok := asDocument(a); ok {
		db, ok := asDocument(b)
		if !ok || len(da) != len(db) {
			return false
		}
		for k, v := range da {
			if !equal(v, db[k]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
