package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// Kind identifies which variant of a Node is populated
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Field is one key of an object node; object keys keep document order
type Field struct {
	Key   string
	Value *Node
}

// Node is a decoded JSON value. Exactly one of the payload fields is meaningful,
// selected by Kind.
type Node struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Items  []*Node
	Fields []Field
}

var errUnsupportedValue = errors.New("unsupported json value")

// ParseTree decodes a JSON document into an ordered tree
func ParseTree(data []byte) (*Node, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return buildNode(value, dataType)
}

func buildNode(value []byte, dataType jsonparser.ValueType) (*Node, error) {
	switch dataType {
	case jsonparser.Null:
		return &Node{Kind: KindNull}, nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindBool, Bool: b}, nil

	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindNumber, Number: f}, nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindString, Str: s}, nil

	case jsonparser.Array:
		node := &Node{Kind: KindArray}
		var walkErr error
		_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, err error) {
			if walkErr != nil {
				return
			}
			if err != nil {
				walkErr = err
				return
			}
			child, err := buildNode(item, itemType)
			if err != nil {
				walkErr = err
				return
			}
			node.Items = append(node.Items, child)
		})
		if err != nil {
			return nil, err
		}
		if walkErr != nil {
			return nil, walkErr
		}
		return node, nil

	case jsonparser.Object:
		node := &Node{Kind: KindObject}
		err := jsonparser.ObjectEach(value, func(key []byte, item []byte, itemType jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			child, err := buildNode(item, itemType)
			if err != nil {
				return err
			}
			node.Fields = append(node.Fields, Field{Key: k, Value: child})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return node, nil
	}

	return nil, errUnsupportedValue
}

// Get follows object keys from n. It returns nil when any step is missing.
func (n *Node) Get(keys ...string) *Node {
	cur := n
	for _, key := range keys {
		if cur == nil || cur.Kind != KindObject {
			return nil
		}
		var next *Node
		for _, f := range cur.Fields {
			if f.Key == key {
				next = f.Value
				break
			}
		}
		cur = next
	}
	return cur
}

// Lookup resolves a dotted path such as "default_sku.image_url"
func (n *Node) Lookup(path string) *Node {
	return n.Get(strings.Split(path, ".")...)
}

// FirstOf returns the first dotted path that resolves to a non-null value
func (n *Node) FirstOf(paths ...string) *Node {
	for _, p := range paths {
		if v := n.Lookup(p); v != nil && v.Kind != KindNull {
			return v
		}
	}
	return nil
}

// Text returns the trimmed string payload of a string node
func (n *Node) Text() (string, bool) {
	if n == nil || n.Kind != KindString {
		return "", false
	}
	s := strings.TrimSpace(n.Str)
	return s, s != ""
}

// Scalar renders a primitive node as text; containers and null yield false
func (n *Node) Scalar() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindString:
		return n.Str, true
	case KindNumber:
		return strconv.FormatFloat(n.Number, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(n.Bool), true
	}
	return "", false
}

// Segment is one step of a Path: an object key or an array index
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path locates a node inside a tree
type Path []Segment

// String renders the path as "props.items[0].name"
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p {
		if seg.IsIndex {
			sb.WriteString("[" + strconv.Itoa(seg.Index) + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Key)
	}
	return sb.String()
}

// Keys renders only the object keys, dropping array positions
func (p Path) Keys() string {
	keys := make([]string, 0, len(p))
	for _, seg := range p {
		if !seg.IsIndex {
			keys = append(keys, seg.Key)
		}
	}
	return strings.Join(keys, ".")
}

func (p Path) child(seg Segment) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = seg
	return next
}

// Visitor is called for every node in depth-first document order
type Visitor func(path Path, n *Node)

// Walk visits n and all of its descendants
func (n *Node) Walk(visit Visitor) {
	n.walk(nil, visit)
}

func (n *Node) walk(path Path, visit Visitor) {
	if n == nil {
		return
	}
	visit(path, n)
	switch n.Kind {
	case KindArray:
		for i, item := range n.Items {
			item.walk(path.child(Segment{Index: i, IsIndex: true}), visit)
		}
	case KindObject:
		for _, f := range n.Fields {
			f.Value.walk(path.child(Segment{Key: f.Key}), visit)
		}
	}
}

var (
	ldJSONPattern   = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	nextDataPattern = regexp.MustCompile(`(?is)<script[^>]+id=["']__NEXT_DATA__["'][^>]*>(.*?)</script>`)
)

// ParseStructuredData returns every JSON-LD block of the page that decodes cleanly
func ParseStructuredData(html string) []*Node {
	var blocks []*Node
	for _, m := range ldJSONPattern.FindAllStringSubmatch(html, -1) {
		node, err := ParseTree([]byte(strings.TrimSpace(m[1])))
		if err != nil {
			continue
		}
		blocks = append(blocks, node)
	}
	return blocks
}

// ParseNextData decodes the embedded application state, if the page has one
func ParseNextData(html string) *Node {
	m := nextDataPattern.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	node, err := ParseTree([]byte(strings.TrimSpace(m[1])))
	if err != nil {
		return nil
	}
	return node
}

// structuredObjects flattens JSON-LD blocks into candidate entities: the block
// itself (or its items when it is an array) followed by any @graph members
func structuredObjects(blocks []*Node) []*Node {
	var out []*Node
	add := func(n *Node) {
		if n == nil || n.Kind != KindObject {
			return
		}
		out = append(out, n)
		if graph := n.Get("@graph"); graph != nil && graph.Kind == KindArray {
			for _, g := range graph.Items {
				if g.Kind == KindObject {
					out = append(out, g)
				}
			}
		}
	}
	for _, b := range blocks {
		if b.Kind == KindArray {
			for _, item := range b.Items {
				add(item)
			}
			continue
		}
		add(b)
	}
	return out
}
