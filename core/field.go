package core

import (
	"fmt"
	"strconv"
	"time"
)

// Well-known field keys the console renderer treats as structural rather
// than as ordinary display fields.
const (
	MessageKey = "message"
	SuccessKey = "success"
	CauseKey   = "cause"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// StringValue returns the string representation of a field's value.
// Unknown types fall back to a generic debug rendering.
func (f Field) StringValue() string {
	switch f.Type {
	case StringType, ErrorType:
		return f.Str
	case IntType, Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).Format(time.RFC3339)
	case DurationType:
		return time.Duration(f.Int64).String()
	default:
		return fmt.Sprintf("%v", f.Any)
	}
}

// AppendValue appends the string representation of the field's value to
// dst, avoiding intermediate allocations for numeric and bool types.
func (f Field) AppendValue(dst []byte) []byte {
	switch f.Type {
	case StringType, ErrorType:
		return append(dst, f.Str...)
	case IntType, Int64Type:
		return strconv.AppendInt(dst, f.Int64, 10)
	case Float64Type:
		return strconv.AppendFloat(dst, f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.AppendBool(dst, f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).AppendFormat(dst, time.RFC3339)
	case DurationType:
		return append(dst, time.Duration(f.Int64).String()...)
	default:
		return fmt.Appendf(dst, "%v", f.Any)
	}
}
