package beanio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentRepeatingCollectionUnmarshalDelimited(t *testing.T) {
	sku := &Field{
		Name: "sku", PropertyName: "sku",
		Descriptor: FieldDescriptor{Index: 0, HasIndex: true},
		Handler:    StringHandler{}, Accessor: MapAccessor{},
	}
	items := &Segment{
		Name: "items", PropertyName: "items",
		Accessor:   MapAccessor{},
		Collection: CollectionSlice,
		MaxOccurs:  Unbounded,
		Children:   []ContentNode{sku},
	}

	view := &delimitedView{tokens: []string{"A", "B", "C"}}
	ctx := NewUnmarshallingContext("s")
	bean := map[string]interface{}{}
	items.UnmarshalInto(ctx, view, bean)

	list, ok := bean["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 3)
	require.Equal(t, "A", list[0].(map[string]interface{})["sku"])
	require.Equal(t, "B", list[1].(map[string]interface{})["sku"])
	require.Equal(t, "C", list[2].(map[string]interface{})["sku"])
}

func TestSegmentRepeatingCollectionMarshalDelimited(t *testing.T) {
	sku := &Field{
		Name: "sku", PropertyName: "sku",
		Descriptor: FieldDescriptor{Index: 0, HasIndex: true},
		Handler:    StringHandler{}, Accessor: MapAccessor{},
	}
	items := &Segment{
		Name: "items", PropertyName: "items",
		Accessor:   MapAccessor{},
		Collection: CollectionSlice,
		MaxOccurs:  Unbounded,
		Children:   []ContentNode{sku},
	}

	bean := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"sku": "A"},
			map[string]interface{}{"sku": "B"},
		},
	}
	view := &delimitedView{}
	ctx := NewMarshallingContext("s", NewLineRecordWriter(nopWriter{}))
	require.NoError(t, items.MarshalFrom(ctx, view, bean))
	require.Equal(t, []string{"A", "B"}, view.tokens)
}

func TestSegmentNonCollectionNestsBean(t *testing.T) {
	name := &Field{
		Name: "name", PropertyName: "name",
		Descriptor: FieldDescriptor{Index: 0, HasIndex: true},
		Handler:    StringHandler{}, Accessor: MapAccessor{},
	}
	address := &Segment{
		Name: "address", PropertyName: "address",
		Accessor: MapAccessor{},
		Children: []ContentNode{name},
	}
	view := &delimitedView{tokens: []string{"Main St"}}
	ctx := NewUnmarshallingContext("s")
	bean := map[string]interface{}{}
	address.UnmarshalInto(ctx, view, bean)

	nested, ok := bean["address"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Main St", nested["name"])
}
