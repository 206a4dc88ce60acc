package beanio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

func init() {
	GlobalTypeHandlers.RegisterType("string", "", StringHandler{})
	GlobalTypeHandlers.RegisterType("char", "", CharHandler{})
	GlobalTypeHandlers.RegisterType("bool", "", BoolHandler{NumericForm: false})
	GlobalTypeHandlers.RegisterType("int8", "", IntHandler{BitSize: 8})
	GlobalTypeHandlers.RegisterType("int16", "", IntHandler{BitSize: 16})
	GlobalTypeHandlers.RegisterType("int32", "", IntHandler{BitSize: 32})
	GlobalTypeHandlers.RegisterType("int64", "", IntHandler{BitSize: 64})
	GlobalTypeHandlers.RegisterType("uint8", "", UintHandler{BitSize: 8})
	GlobalTypeHandlers.RegisterType("uint16", "", UintHandler{BitSize: 16})
	GlobalTypeHandlers.RegisterType("uint32", "", UintHandler{BitSize: 32})
	GlobalTypeHandlers.RegisterType("uint64", "", UintHandler{BitSize: 64})
	GlobalTypeHandlers.RegisterType("decimal", "", DecimalHandler{Scale: 2})
	GlobalTypeHandlers.RegisterType("uuid", "", UUIDHandler{})
	GlobalTypeHandlers.RegisterType("date", "", DateTimeHandler{Layout: "2006-01-02"})
	GlobalTypeHandlers.RegisterType("datetime", "", DateTimeHandler{Layout: time.RFC3339})
	GlobalTypeHandlers.RegisterType("date", "yyyyMMdd", DateTimeHandler{Layout: "20060102"})

	GlobalTypeHandlers.RegisterName("string", StringHandler{})
	GlobalTypeHandlers.RegisterName("char", CharHandler{})
	GlobalTypeHandlers.RegisterName("bool", BoolHandler{})
	GlobalTypeHandlers.RegisterName("uuid", UUIDHandler{})
	GlobalTypeHandlers.RegisterName("date", DateTimeHandler{Layout: "2006-01-02"})
	GlobalTypeHandlers.RegisterName("datetime", DateTimeHandler{Layout: time.RFC3339})
}

// StringHandler is the identity TypeHandler.
type StringHandler struct{}

func (StringHandler) Parse(text string) (interface{}, error) { return text, nil }
func (StringHandler) Format(value interface{}) (string, error) {
	if value == nil {
		return "", nil
	}
	return fmt.Sprintf("%v", value), nil
}

// CharHandler binds a single rune.
type CharHandler struct{}

func (CharHandler) Parse(text string) (interface{}, error) {
	r := []rune(text)
	if len(r) != 1 {
		return nil, fmt.Errorf("expected a single character, got %q", text)
	}
	return r[0], nil
}

func (CharHandler) Format(value interface{}) (string, error) {
	switch v := value.(type) {
	case rune:
		return string(v), nil
	case byte:
		return string(rune(v)), nil
	default:
		return fmt.Sprintf("%v", value), nil
	}
}

// BoolHandler parses "true"/"false" or, when NumericForm is set, "1"/"0".
type BoolHandler struct {
	NumericForm bool
}

func (h BoolHandler) Parse(text string) (interface{}, error) {
	if h.NumericForm {
		switch text {
		case "1":
			return true, nil
		case "0":
			return false, nil
		default:
			return nil, fmt.Errorf("expected 1 or 0, got %q", text)
		}
	}
	return strconv.ParseBool(text)
}

func (h BoolHandler) Format(value interface{}) (string, error) {
	b, ok := value.(bool)
	if !ok {
		return "", fmt.Errorf("expected bool, got %T", value)
	}
	if h.NumericForm {
		if b {
			return "1", nil
		}
		return "0", nil
	}
	return strconv.FormatBool(b), nil
}

// IntHandler binds signed integers of a declared bit width.
type IntHandler struct {
	BitSize int
}

func (h IntHandler) Parse(text string) (interface{}, error) {
	return strconv.ParseInt(text, 10, h.BitSize)
}

func (h IntHandler) Format(value interface{}) (string, error) {
	i, err := toInt64(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(i, 10), nil
}

// UintHandler binds unsigned integers of a declared bit width.
type UintHandler struct {
	BitSize int
}

func (h UintHandler) Parse(text string) (interface{}, error) {
	return strconv.ParseUint(text, 10, h.BitSize)
}

func (h UintHandler) Format(value interface{}) (string, error) {
	u, err := toUint64(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(u, 10), nil
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func toUint64(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("expected unsigned integer, got %T", value)
	}
}

// DecimalHandler binds decimals represented as float64: on parse, the text
// (with its decimal point, if any) is read by strconv.ParseFloat; on format,
// the value is rendered with Scale fraction digits.
type DecimalHandler struct {
	Scale int
	// Pattern, if set, is a fmt-style verb (e.g. "%.2f") used instead of Scale
	// for formatting. Parsing always uses strconv.ParseFloat.
	Pattern string
}

func (h DecimalHandler) Parse(text string) (interface{}, error) {
	return strconv.ParseFloat(text, 64)
}

func (h DecimalHandler) Format(value interface{}) (string, error) {
	f, ok := value.(float64)
	if !ok {
		return "", fmt.Errorf("expected float64, got %T", value)
	}
	if h.Pattern != "" {
		return fmt.Sprintf(h.Pattern, f), nil
	}
	return strconv.FormatFloat(f, 'f', h.Scale, 64), nil
}

// DateTimeHandler binds time.Time using a Go reference-time layout string, as
// called for by §4.5's "locale-free pattern".
type DateTimeHandler struct {
	Layout string
}

func (h DateTimeHandler) Parse(text string) (interface{}, error) {
	return time.Parse(h.Layout, text)
}

func (h DateTimeHandler) Format(value interface{}) (string, error) {
	t, ok := value.(time.Time)
	if !ok {
		return "", fmt.Errorf("expected time.Time, got %T", value)
	}
	return t.Format(h.Layout), nil
}

// UUIDHandler binds github.com/satori/go.uuid's canonical string form.
type UUIDHandler struct{}

func (UUIDHandler) Parse(text string) (interface{}, error) {
	return uuid.FromString(strings.TrimSpace(text))
}

func (UUIDHandler) Format(value interface{}) (string, error) {
	u, ok := value.(uuid.UUID)
	if !ok {
		return "", fmt.Errorf("expected uuid.UUID, got %T", value)
	}
	return u.String(), nil
}
