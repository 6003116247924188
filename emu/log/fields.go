package log

import (
	"fmt"
	"strconv"
	"time"
)

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeAddr
	FieldTypeInt
	FieldTypeDuration
)

// A ZField is a typed EntryZ field, formatted only when the entry is emitted.
type ZField struct {
	Type FieldType
	Key  string

	String   string
	Integer  uint64
	Duration time.Duration
	Boolean  bool
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Boolean)
	case FieldTypeString:
		return f.String
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeAddr:
		return fmt.Sprintf("%02x:%04x", uint(f.Integer>>16)&0xff, uint(f.Integer)&0xffff)
	case FieldTypeDuration:
		return f.Duration.String()
	}
	return ""
}
