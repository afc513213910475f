package ldbc

import (
	"fmt"
	"strconv"
)

// renderParams produces the canonical textual rendering of sql's dynamic
// parameters for log events and error messages (§6): integers as decimal,
// decimals in their canonical form, strings as-is, binary as a fixed
// marker, null as the literal "null".
func renderParams(sql Sql) []string {
	dyn := sql.DynamicParams()
	out := make([]string, 0, len(dyn))
	for _, p := range dyn {
		if !p.dynamic.Ok() {
			out = append(out, "<encoding error>")
			continue
		}
		for _, v := range p.dynamic.values {
			out = append(out, renderPrimitive(v))
		}
	}
	return out
}

func renderPrimitive(v Primitive) string {
	switch val := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(val))
	case Int8:
		return strconv.FormatInt(int64(val), 10)
	case Int16:
		return strconv.FormatInt(int64(val), 10)
	case Int32:
		return strconv.FormatInt(int64(val), 10)
	case Int64:
		return strconv.FormatInt(int64(val), 10)
	case Float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Decimal:
		return decimalValue(val).String()
	case String:
		return string(val)
	case Bytes:
		return fmt.Sprintf("<%d bytes>", len(val))
	case Date:
		return dateValue(val).Format("2006-01-02")
	case TimeOfDay:
		return timeValue(val).Format("15:04:05")
	case Timestamp:
		return timestampValue(val).Format("2006-01-02 15:04:05")
	case Null:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
