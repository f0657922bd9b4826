// Package vars expands ${namespace:name} variable references in string
// configuration fields through a chain of registered resolvers.
package vars

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/groblegark/snsevents/internal/model"
)

// refPattern matches ${namespace:name} references.
var refPattern = regexp.MustCompile(`\$\{([A-Za-z][A-Za-z0-9]*):([^}]+)\}`)

// Resolver resolves references for a single namespace.
type Resolver interface {
	// Namespace is the tag before the colon, e.g. "snsTopic".
	Namespace() string
	// Resolve returns the replacement for ${<ns>:<name>}.
	Resolve(name string) (string, error)
}

// Chain dispatches references to registered resolvers by namespace.
// References with no registered resolver are left untouched so the host
// framework's own variable syntax passes through.
type Chain struct {
	resolvers map[string]Resolver
}

// NewChain creates a chain with the given resolvers registered.
func NewChain(rs ...Resolver) *Chain {
	c := &Chain{resolvers: make(map[string]Resolver)}
	for _, r := range rs {
		c.Register(r)
	}
	return c
}

// Register adds a resolver. A later registration for the same namespace
// replaces the earlier one.
func (c *Chain) Register(r Resolver) {
	c.resolvers[r.Namespace()] = r
}

// Expand replaces every resolvable reference in s.
func (c *Chain) Expand(s string) (string, error) {
	var firstErr error
	out := refPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := refPattern.FindStringSubmatch(match)
		r, ok := c.resolvers[groups[1]]
		if !ok {
			return match
		}
		val, err := r.Resolve(strings.TrimSpace(groups[2]))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("resolving %s: %w", match, err)
			}
			return match
		}
		return val
	})
	return out, firstErr
}

// ExpandService expands references across the configuration tree: function
// environment values and resource definitions.
func (c *Chain) ExpandService(svc *model.Service) error {
	for _, fn := range svc.Functions {
		for k, v := range fn.Environment {
			expanded, err := c.Expand(v)
			if err != nil {
				return fmt.Errorf("function %s environment %s: %w", fn.Name, k, err)
			}
			fn.Environment[k] = expanded
		}
	}
	expanded, err := c.expandValue(svc.Resources)
	if err != nil {
		return fmt.Errorf("resources: %w", err)
	}
	if expanded != nil {
		svc.Resources = expanded.(map[string]any)
	}
	return nil
}

func (c *Chain) expandValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return c.Expand(val)
	case map[string]any:
		for k, inner := range val {
			expanded, err := c.expandValue(inner)
			if err != nil {
				return nil, err
			}
			val[k] = expanded
		}
		return val, nil
	case []any:
		for i, inner := range val {
			expanded, err := c.expandValue(inner)
			if err != nil {
				return nil, err
			}
			val[i] = expanded
		}
		return val, nil
	default:
		return v, nil
	}
}

// TopicResolver resolves ${snsTopic:name} to the topic's ARN and records
// every name it resolves so the deploy can create those topics.
type TopicResolver struct {
	arnFor func(topic string) string
	seen   []string
}

// NewTopicResolver creates a resolver that computes ARNs with arnFor.
func NewTopicResolver(arnFor func(topic string) string) *TopicResolver {
	return &TopicResolver{arnFor: arnFor}
}

func (t *TopicResolver) Namespace() string { return model.KeyTopic }

func (t *TopicResolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty topic name")
	}
	t.seen = append(t.seen, name)
	return t.arnFor(name), nil
}

// Topics returns every topic name resolved so far, in resolution order,
// duplicates included.
func (t *TopicResolver) Topics() []string { return t.seen }
