package database

import (
	"strconv"
)

// Row is one positional result tuple. The sqlite3 driver hands back int64,
// float64, string, []byte, bool (for BOOLEAN columns) or nil; the accessors
// below coerce those into the type the caller expects.
type Row []any

func (r Row) Int(i int) int {
	return int(r.Int64(i))
}

func (r Row) Int64(i int) int64 {
	if i >= len(r) {
		return 0
	}
	switch v := r[i].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	default:
		return 0
	}
}

func (r Row) String(i int) string {
	if i >= len(r) {
		return ""
	}
	switch v := r[i].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (r Row) Bool(i int) bool {
	if i >= len(r) {
		return false
	}
	switch v := r[i].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return v != "" && v != "0"
		}
		return b
	case []byte:
		b, _ := strconv.ParseBool(string(v))
		return b
	default:
		return r.Int64(i) != 0
	}
}

func (r Row) IsNull(i int) bool {
	return i >= len(r) || r[i] == nil
}
