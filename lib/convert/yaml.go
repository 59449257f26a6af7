package convert

import (
	"encoding/base64"
	"math/big"
	"strings"
	"time"

	"github.com/ValentinKolb/vgraph/lib/value"
	"gopkg.in/yaml.v3"
)

// FromYAML decodes the first YAML document in data into a value. Mapping key
// order is kept.
func FromYAML(data []byte) (value.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, value.DecodeError("invalid YAML: %v", err)
	}
	return fromNode(&root, 0)
}

// ToYAML encodes a value as a YAML document.
func ToYAML(v value.Value) ([]byte, error) {
	p, err := newExporter().export(v)
	if err != nil {
		return nil, err
	}
	n, err := yamlNode(p)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

// maxAliasDepth bounds alias chains so self-referencing anchors fail cleanly
const maxAliasDepth = 64

func fromNode(n *yaml.Node, aliases int) (value.Value, error) {
	switch n.Kind {
	case 0:
		return value.Empty{}, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Empty{}, nil
		}
		return fromNode(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return nil, value.DecodeError("YAML alias nesting too deep at line %d", n.Line)
		}
		return fromNode(n.Alias, aliases+1)
	case yaml.MappingNode:
		fields := make([]value.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, value.DecodeError("unsupported YAML mapping key at line %d", k.Line)
			}
			v, err := fromNode(n.Content[i+1], aliases)
			if err != nil {
				return nil, err
			}
			fields = append(fields, value.Field{Name: k.Value, Value: v})
		}
		return value.NewStruct(fields...), nil
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, aliases)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return fromArray(items)
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, value.DecodeError("unsupported YAML node at line %d", n.Line)
}

func fromScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Empty{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, value.DecodeError("invalid YAML bool at line %d: %v", n.Line, err)
		}
		return value.Bool(b), nil
	case "!!int":
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return nil, value.DecodeError("invalid YAML integer %q at line %d", n.Value, n.Line)
		}
		return value.NewBigInteger(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, value.DecodeError("invalid YAML float at line %d: %v", n.Line, err)
		}
		return value.Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, value.DecodeError("invalid YAML timestamp at line %d: %v", n.Line, err)
		}
		return value.NewTime(t), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, value.DecodeError("invalid YAML binary at line %d: %v", n.Line, err)
		}
		return value.NewBinary(b), nil
	}
	return value.String(n.Value), nil
}

// yamlNode builds a node tree from exported plain data
func yamlNode(p interface{}) (*yaml.Node, error) {
	switch t := p.(type) {
	case *object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range t.fields {
			k := &yaml.Node{}
			if err := k.Encode(f.name); err != nil {
				return nil, err
			}
			v, err := yamlNode(f.value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, k, v)
		}
		return n, nil
	case []interface{}:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range t {
			c, err := yamlNode(it)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case bigNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: string(t)}, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(p); err != nil {
		return nil, err
	}
	return n, nil
}
