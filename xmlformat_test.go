package beanio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXMLFormatDecodeUnorderedChildren(t *testing.T) {
	cfg := &StreamConfig{Name: "order", Format: "xml", XMLName: "order"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	raw := []byte(`<order id="7"><total>42.50</total><customer>Ada</customer></order>`)
	view, err := f.Decode(raw)
	require.NoError(t, err)

	id, ok := view.GetText(FieldDescriptor{XMLName: "id", XMLType: XMLTypeAttribute})
	require.True(t, ok)
	require.Equal(t, "7", id)

	// element fields read correctly regardless of declaration order in the
	// input document.
	customer, ok := view.GetText(FieldDescriptor{XMLName: "customer", XMLType: XMLTypeElement})
	require.True(t, ok)
	require.Equal(t, "Ada", customer)

	total, ok := view.GetText(FieldDescriptor{XMLName: "total", XMLType: XMLTypeElement})
	require.True(t, ok)
	require.Equal(t, "42.50", total)
}

func TestXMLFormatEncodeRoundTrip(t *testing.T) {
	cfg := &StreamConfig{Name: "order", Format: "xml", XMLName: "order"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	view := f.NewView()
	view.SetText(FieldDescriptor{XMLName: "id", XMLType: XMLTypeAttribute}, "9")
	view.SetText(FieldDescriptor{XMLName: "customer", XMLType: XMLTypeElement}, "Grace")

	raw, err := f.Encode(view)
	require.NoError(t, err)

	decoded, err := f.Decode(raw)
	require.NoError(t, err)
	id, _ := decoded.GetText(FieldDescriptor{XMLName: "id", XMLType: XMLTypeAttribute})
	require.Equal(t, "9", id)
	customer, _ := decoded.GetText(FieldDescriptor{XMLName: "customer", XMLType: XMLTypeElement})
	require.Equal(t, "Grace", customer)
}

func TestXMLFormatRepeatingElementsByOccurrence(t *testing.T) {
	cfg := &StreamConfig{Name: "order", Format: "xml", XMLName: "order"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	raw := []byte(`<order><item>pen</item><item>pad</item></order>`)
	view, err := f.Decode(raw)
	require.NoError(t, err)

	first, ok := view.GetText(FieldDescriptor{XMLName: "item", XMLType: XMLTypeElement, Occurrence: 0})
	require.True(t, ok)
	require.Equal(t, "pen", first)

	second, ok := view.GetText(FieldDescriptor{XMLName: "item", XMLType: XMLTypeElement, Occurrence: 1})
	require.True(t, ok)
	require.Equal(t, "pad", second)

	_, ok = view.GetText(FieldDescriptor{XMLName: "item", XMLType: XMLTypeElement, Occurrence: 2})
	require.False(t, ok)
}

func TestXMLFormatNestedWrapperField(t *testing.T) {
	cfg := &StreamConfig{Name: "order", Format: "xml", XMLName: "order"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	raw := []byte(`<order><shipping><city>Springfield</city></shipping></order>`)
	view, err := f.Decode(raw)
	require.NoError(t, err)

	city, ok := view.GetText(FieldDescriptor{XMLName: "city", XMLType: XMLTypeNested, XMLWrapper: "shipping"})
	require.True(t, ok)
	require.Equal(t, "Springfield", city)

	// a field addressed at the record's own level, not inside the wrapper,
	// must not see the wrapped value.
	_, ok = view.GetText(FieldDescriptor{XMLName: "city", XMLType: XMLTypeElement})
	require.False(t, ok)
}

func TestXMLFormatNestedWrapperFieldEncodeRoundTrip(t *testing.T) {
	cfg := &StreamConfig{Name: "order", Format: "xml", XMLName: "order"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	view := f.NewView()
	view.SetText(FieldDescriptor{XMLName: "city", XMLType: XMLTypeNested, XMLWrapper: "shipping"}, "Springfield")
	view.SetText(FieldDescriptor{XMLName: "state", XMLType: XMLTypeNested, XMLWrapper: "shipping"}, "IL")

	raw, err := f.Encode(view)
	require.NoError(t, err)
	require.Contains(t, string(raw), "<shipping>")

	decoded, err := f.Decode(raw)
	require.NoError(t, err)
	city, ok := decoded.GetText(FieldDescriptor{XMLName: "city", XMLType: XMLTypeNested, XMLWrapper: "shipping"})
	require.True(t, ok)
	require.Equal(t, "Springfield", city)
	state, ok := decoded.GetText(FieldDescriptor{XMLName: "state", XMLType: XMLTypeNested, XMLWrapper: "shipping"})
	require.True(t, ok)
	require.Equal(t, "IL", state)
}

func TestXMLFormatNillableElement(t *testing.T) {
	cfg := &StreamConfig{Name: "order", Format: "xml", XMLName: "order"}
	f, err := NewRecordFormat(cfg)
	require.NoError(t, err)

	view := f.NewView()
	view.SetText(FieldDescriptor{XMLName: "note", XMLType: XMLTypeElement, Nillable: true}, "")

	raw, err := f.Encode(view)
	require.NoError(t, err)
	require.Contains(t, string(raw), `nil="true"`)

	decoded, err := f.Decode(raw)
	require.NoError(t, err)
	_, ok := decoded.GetText(FieldDescriptor{XMLName: "note", XMLType: XMLTypeElement})
	require.False(t, ok)
}
