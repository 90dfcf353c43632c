package knowledge

import (
	"gopkg.in/yaml.v3"
)

// parseRoot returns the top-level node of a YAML document, or nil for an
// empty document. Nodes are used instead of maps so mapping order survives
// and duplicate keys stay visible.
func parseRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := deref(doc.Content[0])
	if isNull(root) {
		return nil, nil
	}
	return root, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// pair is one key/value entry of a mapping node.
type pair struct {
	Key   string
	Value *yaml.Node
}

func pairs(n *yaml.Node) []pair {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, pair{Key: n.Content[i].Value, Value: deref(n.Content[i+1])})
	}
	return out
}

// lookup returns the value of key in a mapping, the last one on duplicates.
func lookup(n *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for _, p := range pairs(n) {
		if p.Key == key {
			found = p.Value
		}
	}
	return found
}

// declared reports whether key is present with a non-null value.
func declared(n *yaml.Node, key string) bool {
	return !isNull(lookup(n, key))
}

// toGeneric converts a node into plain Go values with last-wins semantics for
// duplicate keys, which Node.Decode would reject.
func toGeneric(n *yaml.Node) interface{} {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return toGeneric(n.Content[0])
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for _, p := range pairs(n) {
			m[p.Key] = toGeneric(p.Value)
		}
		return m
	case yaml.SequenceNode:
		s := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, toGeneric(c))
		}
		return s
	default:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return n.Value
		}
		return v
	}
}
