package beanio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleStreamJSON = `
{
  "name": "orders",
  "format": "delimited",
  "mode": "read",
  "delimiter": ",",
  "root": {
    "name": "orders",
    "records": [
      {
        "name": "order",
        "order": 1,
        "minOccurs": 1,
        "maxOccurs": -1,
        "segment": {
          "fields": [
            {"name": "id", "position": 0, "rid": true, "required": true},
            {"name": "total", "position": 1, "type": "decimal"}
          ]
        }
      }
    ]
  }
}
`

func TestDecodeStreamConfigJSON(t *testing.T) {
	cfg, err := DecodeStreamConfigJSON([]byte(sampleStreamJSON))
	require.NoError(t, err)
	require.Equal(t, "orders", cfg.Name)
	require.Equal(t, ",", cfg.Delimiter)
	require.Len(t, cfg.Root.Records, 1)
	require.Equal(t, "id", cfg.Root.Records[0].Segment.Fields[0].Name)
	require.True(t, cfg.Root.Records[0].Segment.Fields[0].RID)
	require.True(t, cfg.IsOrdered())
}

func TestDecodeStreamConfigJSONMalformed(t *testing.T) {
	_, err := DecodeStreamConfigJSON([]byte("{not json"))
	require.Error(t, err)
	require.True(t, ErrMalformedMapping.Is(err))
}

const sampleStreamYAML = `
name: orders
format: fixed
mode: read
root:
  name: orders
  ordered: false
  records:
    - name: order
      order: 1
      segment:
        fields:
          - name: id
            position: 0
            length: 6
`

func TestDecodeStreamConfigYAML(t *testing.T) {
	cfg, err := DecodeStreamConfigYAML([]byte(sampleStreamYAML))
	require.NoError(t, err)
	require.Equal(t, "fixed", cfg.Format)
	require.False(t, cfg.Root.isOrdered(true))
}

func TestGroupConfigOrderedInheritsParentWhenUnset(t *testing.T) {
	g := GroupConfig{}
	require.True(t, g.isOrdered(true))
	require.False(t, g.isOrdered(false))

	f := false
	g.Ordered = &f
	require.False(t, g.isOrdered(true))
}

func TestImportSchemeConstants(t *testing.T) {
	scheme, rest, err := ImportConfig{Resource: "file:a/b.json"}.Scheme()
	require.NoError(t, err)
	require.Equal(t, SchemeFile, scheme)
	require.Equal(t, "a/b.json", rest)
}
