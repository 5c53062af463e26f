package consumers

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Document keys
const (
	keyStorage      = "storage"
	keyConsumers    = "consumers"
	keyClientID     = "client_id"
	keyClientSecret = "client_secret"
	keyScope        = "scope"
)

// document is the parsed but not yet overlaid content of a consumers document
type document struct {
	storage     string
	storageLine int // 0 when the key is absent
	consumers   map[string]ProviderCredential
	order       []string       // provider names in order of first appearance
	lines       map[string]int // provider name -> line of its winning entry
}

// parser walks the yaml.v3 node tree directly. Decoding into maps would
// reject duplicate keys and lose line numbers.
type parser struct {
	source string
	logger *slog.Logger
}

// parseDocument parses YAML (or JSON, which is a subset) into a document
func parseDocument(data []byte, source string, logger *slog.Logger) (*document, error) {
	p := &parser{source: source, logger: logger}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, p.errorf(nil, "", err, "invalid document")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, p.errorf(nil, "", nil, "document is empty")
	}

	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, p.errorf(top, "", nil, "top level must be a mapping")
	}

	doc := &document{
		consumers: make(map[string]ProviderCredential),
		lines:     make(map[string]int),
	}

	var consumers *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], resolve(top.Content[i+1])
		switch key.Value {
		case keyStorage:
			s, ok := stringScalar(val)
			if !ok {
				return nil, p.errorf(val, keyStorage, nil, "must be a string")
			}
			doc.storage, doc.storageLine = s, key.Line
		case keyConsumers:
			consumers = val
		default:
			p.logger.Debug("Ignoring unknown top-level key",
				"source", p.source,
				"key", key.Value,
				"line", key.Line)
		}
	}

	if consumers == nil {
		return nil, p.errorf(top, keyConsumers, nil, "missing required key")
	}
	if err := p.parseConsumers(doc, consumers); err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *parser) parseConsumers(doc *document, node *yaml.Node) error {
	// An empty array is how PHP-style configs serialise an empty map.
	if node.Kind == yaml.SequenceNode && len(node.Content) == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return p.errorf(node, keyConsumers, nil, "must be a mapping of provider name to credentials")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := resolve(node.Content[i]), resolve(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return p.errorf(key, keyConsumers, nil, "provider name must be a scalar")
		}
		name := key.Value
		if name == "" {
			return p.errorf(key, keyConsumers, nil, "provider name must not be empty")
		}

		cred, err := p.parseConsumer(name, val)
		if err != nil {
			return err
		}

		if prev, dup := doc.lines[name]; dup {
			p.logger.Warn("Duplicate provider entry, last one wins",
				"source", p.source,
				"provider", name,
				"previous_line", prev,
				"line", key.Line)
		} else {
			doc.order = append(doc.order, name)
		}
		doc.consumers[name] = cred
		doc.lines[name] = key.Line
	}
	return nil
}

func (p *parser) parseConsumer(name string, node *yaml.Node) (ProviderCredential, error) {
	field := keyConsumers + "." + name
	if node.Kind != yaml.MappingNode {
		return ProviderCredential{}, p.errorf(node, field, nil, "must be a mapping")
	}

	pairs, err := p.mappingPairs(field, node)
	if err != nil {
		return ProviderCredential{}, err
	}

	cred := ProviderCredential{Provider: name}
	var haveID, haveSecret, haveScope bool

	for i := 0; i+1 < len(pairs); i += 2 {
		key, val := pairs[i], pairs[i+1]
		switch key.Value {
		case keyClientID:
			s, ok := stringScalar(val)
			if !ok {
				return ProviderCredential{}, p.errorf(val, field+"."+keyClientID, nil, "must be a string")
			}
			cred.ClientID, haveID = s, true
		case keyClientSecret:
			s, ok := stringScalar(val)
			if !ok {
				return ProviderCredential{}, p.errorf(val, field+"."+keyClientSecret, nil, "must be a string")
			}
			cred.ClientSecret, haveSecret = s, true
		case keyScope:
			scope, err := p.parseScope(field+"."+keyScope, val)
			if err != nil {
				return ProviderCredential{}, err
			}
			cred.Scope, haveScope = scope, true
		default:
			p.logger.Debug("Ignoring unknown consumer key",
				"source", p.source,
				"provider", name,
				"key", key.Value,
				"line", key.Line)
		}
	}

	switch {
	case !haveID:
		return ProviderCredential{}, p.errorf(node, field, nil, fmt.Sprintf("missing required key %q", keyClientID))
	case !haveSecret:
		return ProviderCredential{}, p.errorf(node, field, nil, fmt.Sprintf("missing required key %q", keyClientSecret))
	case !haveScope:
		return ProviderCredential{}, p.errorf(node, field, nil, fmt.Sprintf("missing required key %q", keyScope))
	}
	return cred, nil
}

// mappingPairs flattens a mapping into alternating key/value nodes, expanding
// "<<" merge keys. Pairs are ordered so that applying them in sequence gives
// YAML merge precedence: explicit keys override merged ones, and earlier merge
// sources override later ones.
func (p *parser) mappingPairs(field string, node *yaml.Node) ([]*yaml.Node, error) {
	var merged, explicit []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], resolve(node.Content[i+1])
		if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!merge" {
			explicit = append(explicit, key, val)
			continue
		}

		var sources []*yaml.Node
		switch val.Kind {
		case yaml.MappingNode:
			sources = []*yaml.Node{val}
		case yaml.SequenceNode:
			for _, item := range val.Content {
				sources = append(sources, resolve(item))
			}
		default:
			return nil, p.errorf(val, field+".<<", nil, "merge value must be a mapping or a sequence of mappings")
		}

		for j := len(sources) - 1; j >= 0; j-- {
			src := sources[j]
			if src.Kind != yaml.MappingNode {
				return nil, p.errorf(src, field+".<<", nil, "merge value must be a mapping or a sequence of mappings")
			}
			pairs, err := p.mappingPairs(field, src)
			if err != nil {
				return nil, err
			}
			merged = append(merged, pairs...)
		}
	}
	return append(merged, explicit...), nil
}

func (p *parser) parseScope(field string, node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, p.errorf(node, field, nil, "must be a sequence of strings")
	}
	scope := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		item = resolve(item)
		s, ok := stringScalar(item)
		if !ok {
			return nil, p.errorf(item, fmt.Sprintf("%s[%d]", field, i), nil, "must be a string")
		}
		scope = append(scope, s)
	}
	return scope, nil
}

func (p *parser) errorf(node *yaml.Node, field string, cause error, reason string) *ConfigParseError {
	e := &ConfigParseError{
		Source: p.source,
		Field:  field,
		Reason: reason,
		Err:    cause,
	}
	if node != nil {
		e.Line = node.Line
	}
	return e
}

// resolve follows alias nodes to their anchors
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// stringScalar returns the value of a string scalar. Nulls, numbers and
// booleans are rejected so that a bare `client_id: 12345` is not silently
// accepted.
func stringScalar(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", false
	}
	return n.Value, true
}
