package beanio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedLengthFormatDecodeEncode(t *testing.T) {
	cfg := &StreamConfig{Name: "s", Format: "fixed"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	view, err := f.Decode([]byte("ABCDEFGHIJ"))
	require.NoError(t, err)

	fd := FieldDescriptor{Position: 3, Length: 4}
	text, ok := view.GetText(fd)
	require.True(t, ok)
	require.Equal(t, "DEFG", text)

	view.SetText(FieldDescriptor{Position: 3, Length: 4}, "ZZZZ")
	raw, err := f.Encode(view)
	require.NoError(t, err)
	require.Equal(t, "ABCZZZZHIJ", string(raw))
}

func TestFixedLengthFormatValidatesLengthRange(t *testing.T) {
	cfg := &StreamConfig{Name: "s", Format: "fixed"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	require.NoError(t, f.Validate([]byte("1234567890"), 8, 12))
	err = f.Validate([]byte("1234"), 8, 12)
	require.Error(t, err)
	require.True(t, ErrRecordLength.Is(err))
}

func TestFixedLengthFormatGrowsBufferOnWrite(t *testing.T) {
	f := &FixedLengthFormat{}
	view := f.NewView().(*fixedView)
	view.SetText(FieldDescriptor{Position: 5, Length: 3}, "XYZ")
	raw, err := f.Encode(view)
	require.NoError(t, err)
	require.Equal(t, "     XYZ", string(raw))
}
