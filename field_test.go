package beanio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newStringField(name string, position, length int, justify Justify, required bool) *Field {
	return &Field{
		Name:         name,
		PropertyName: name,
		Descriptor:   FieldDescriptor{Position: position, Length: length, Index: position, HasIndex: true},
		Justify:      justify,
		Required:     required,
		Handler:      StringHandler{},
		Accessor:     MapAccessor{},
	}
}

func TestFieldPaddingRoundTrip(t *testing.T) {
	f := newStringField("code", 0, 8, JustifyLeft, true)
	view := &fixedView{}
	bean := map[string]interface{}{"code": "AB"}
	ctx := NewMarshallingContext("test", NewLineRecordWriter(nopWriter{}))

	require.NoError(t, f.MarshalFrom(ctx, view, bean))
	text, ok := view.GetText(f.Descriptor)
	require.True(t, ok)
	require.Equal(t, "AB      ", text)

	readCtx := NewUnmarshallingContext("test")
	readCtx.recordStarted("rec")
	out := map[string]interface{}{}
	f.Trim = true
	f.UnmarshalInto(readCtx, view, out)
	require.False(t, readCtx.HasFieldErrors())
	require.Equal(t, "AB", out["code"])
}

func TestFieldTooLongWithoutTruncate(t *testing.T) {
	f := newStringField("code", 0, 4, JustifyLeft, true)
	view := &fixedView{}
	bean := map[string]interface{}{"code": "TOOLONGVALUE"}
	ctx := NewMarshallingContext("test", NewLineRecordWriter(nopWriter{}))
	err := f.MarshalFrom(ctx, view, bean)
	require.Error(t, err)
	require.True(t, ErrFieldTooLong.Is(err))
}

func TestFieldTruncates(t *testing.T) {
	f := newStringField("code", 0, 4, JustifyLeft, true)
	f.Truncate = true
	view := &fixedView{}
	bean := map[string]interface{}{"code": "TOOLONGVALUE"}
	ctx := NewMarshallingContext("test", NewLineRecordWriter(nopWriter{}))
	require.NoError(t, f.MarshalFrom(ctx, view, bean))
	text, _ := view.GetText(f.Descriptor)
	require.Equal(t, "TOOL", text)
}

func TestFieldRequiredMissing(t *testing.T) {
	f := newStringField("code", 0, 4, JustifyLeft, true)
	view := &fixedView{runes: []rune("    ")}
	ctx := NewUnmarshallingContext("test")
	ctx.recordStarted("rec")
	out := map[string]interface{}{}
	f.Trim = true
	f.UnmarshalInto(ctx, view, out)
	require.True(t, ctx.HasFieldErrors())
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
