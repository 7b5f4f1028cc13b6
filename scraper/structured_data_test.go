package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTree(t *testing.T) {
	root, err := ParseTree([]byte(`{"b":1,"a":{"list":["x",true,null]},"s":"café"}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, root.Kind)

	// document order is kept
	require.Len(t, root.Fields, 3)
	assert.Equal(t, "b", root.Fields[0].Key)
	assert.Equal(t, "a", root.Fields[1].Key)

	assert.Equal(t, 1.0, root.Get("b").Number)
	list := root.Lookup("a.list")
	require.NotNil(t, list)
	require.Equal(t, KindArray, list.Kind)
	require.Len(t, list.Items, 3)
	assert.Equal(t, KindString, list.Items[0].Kind)
	assert.Equal(t, KindBool, list.Items[1].Kind)
	assert.Equal(t, KindNull, list.Items[2].Kind)

	s, ok := root.Get("s").Text()
	require.True(t, ok)
	assert.Equal(t, "café", s)
}

func TestParseTreeInvalid(t *testing.T) {
	_, err := ParseTree([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestNodeAccessorsAreNilSafe(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Get("a"))
	assert.Nil(t, n.Lookup("a.b"))
	assert.Nil(t, n.FirstOf("a", "b"))

	_, ok := n.Text()
	assert.False(t, ok)
	_, ok = n.Scalar()
	assert.False(t, ok)
}

func TestFirstOfSkipsNull(t *testing.T) {
	root, err := ParseTree([]byte(`{"name":null,"title":"  Halo  "}`))
	require.NoError(t, err)

	v, ok := root.FirstOf("name", "title").Text()
	require.True(t, ok)
	assert.Equal(t, "Halo", v)
}

func TestScalar(t *testing.T) {
	root, err := ParseTree([]byte(`{"n":12.5,"b":false,"s":"x","o":{}}`))
	require.NoError(t, err)

	v, ok := root.Get("n").Scalar()
	assert.True(t, ok)
	assert.Equal(t, "12.5", v)

	v, ok = root.Get("b").Scalar()
	assert.True(t, ok)
	assert.Equal(t, "false", v)

	_, ok = root.Get("o").Scalar()
	assert.False(t, ok)
}

func TestWalkPaths(t *testing.T) {
	root, err := ParseTree([]byte(`{"props":{"items":[{"name":"A"},{"name":"B"}]}}`))
	require.NoError(t, err)

	var paths, keys []string
	root.Walk(func(path Path, n *Node) {
		if n.Kind == KindString {
			paths = append(paths, path.String())
			keys = append(keys, path.Keys())
		}
	})

	assert.Equal(t, []string{"props.items[0].name", "props.items[1].name"}, paths)
	assert.Equal(t, []string{"props.items.name", "props.items.name"}, keys)
}

func TestParseStructuredData(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@type":"Product","name":"Halo"}</script>
<script type='application/ld+json'>{broken</script>
<script type="application/ld+json">[{"@type":"Offer"},{"@graph":[{"@type":"VideoGame"}]}]</script>
</head></html>`

	blocks := ParseStructuredData(page)
	require.Len(t, blocks, 2)

	objects := structuredObjects(blocks)
	require.Len(t, objects, 4)
	typ, _ := objects[3].Get("@type").Text()
	assert.Equal(t, "VideoGame", typ)
}

func TestParseNextData(t *testing.T) {
	page := `<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{}}}</script>`
	state := ParseNextData(page)
	require.NotNil(t, state)
	assert.NotNil(t, state.Lookup("props.pageProps"))

	assert.Nil(t, ParseNextData(`<html></html>`))
}
