package beanio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuiltinHandlersRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		handler TypeHandler
		text    string
		value   interface{}
	}{
		{"string", StringHandler{}, "hello", "hello"},
		{"bool", BoolHandler{}, "true", true},
		{"bool-numeric", BoolHandler{NumericForm: true}, "1", true},
		{"int32", IntHandler{BitSize: 32}, "-42", int64(-42)},
		{"uint16", UintHandler{BitSize: 16}, "42", uint64(42)},
		{"uuid", UUIDHandler{}, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			value, err := c.handler.Parse(c.text)
			require.NoError(t, err)
			if c.value != nil {
				require.Equal(t, c.value, value)
			}
			text, err := c.handler.Format(value)
			require.NoError(t, err)
			require.NotEmpty(t, text)
		})
	}
}

func TestDateTimeHandlerLayout(t *testing.T) {
	h := DateTimeHandler{Layout: "2006-01-02"}
	value, err := h.Parse("2024-03-05")
	require.NoError(t, err)
	tm, ok := value.(time.Time)
	require.True(t, ok)
	require.Equal(t, 2024, tm.Year())

	text, err := h.Format(tm)
	require.NoError(t, err)
	require.Equal(t, "2024-03-05", text)
}

func TestTypeHandlerRegistryResolution(t *testing.T) {
	parent := NewTypeHandlerRegistry(nil)
	parent.RegisterType("string", "", StringHandler{})
	parent.RegisterName("upper", StringHandler{})

	child := NewTypeHandlerRegistry(parent)
	child.RegisterType("string", "csv", CharHandler{})

	h, err := child.Resolve("", "string", "csv")
	require.NoError(t, err)
	require.IsType(t, CharHandler{}, h)

	h, err = child.Resolve("", "string", "")
	require.NoError(t, err)
	require.IsType(t, StringHandler{}, h)

	h, err = child.Resolve("upper", "", "")
	require.NoError(t, err)
	require.IsType(t, StringHandler{}, h)

	_, err = child.Resolve("", "nonexistent", "")
	require.Error(t, err)
	require.True(t, ErrUnknownTypeHandler.Is(err))
}
