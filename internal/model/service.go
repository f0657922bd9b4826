// Package model holds the declarative service configuration tree: a named
// service, its provider settings, and an ordered set of functions with their
// event subscriptions.
package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Event type keys recognized in a function's events list.
const (
	// KeyTopic is the custom event form: a bare topic name that this tool
	// rewrites into the native form before packaging.
	KeyTopic = "snsTopic"
	// KeySNS is the native subscription form carrying a full topic ARN.
	KeySNS = "sns"
)

// Event is one entry in a function's events list. Exactly one of Topic or
// ARN is set for recognized entries; anything else is preserved verbatim
// for re-encoding.
type Event struct {
	// Key is the event type tag ("snsTopic", "sns", "http", ...).
	Key string
	// Topic is the referenced topic name when Key == KeyTopic.
	Topic string
	// ARN is the subscription target when Key == KeySNS.
	ARN string

	raw *yaml.Node
}

// IsTopic reports whether the entry is a custom topic reference.
func (e *Event) IsTopic() bool { return e.Key == KeyTopic }

// Rewrite converts a custom topic entry into the native form in place.
func (e *Event) Rewrite(arn string) {
	e.Key = KeySNS
	e.ARN = arn
	e.Topic = ""
	e.raw = nil
}

func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("event entry must be a single-key mapping (line %d)", node.Line)
	}
	key, val := node.Content[0], node.Content[1]
	e.Key = key.Value
	switch e.Key {
	case KeyTopic:
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("%s event must be a topic name string (line %d)", KeyTopic, val.Line)
		}
		e.Topic = val.Value
	case KeySNS:
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("%s event must be a topic ARN string (line %d)", KeySNS, val.Line)
		}
		e.ARN = val.Value
	default:
		e.raw = val
	}
	return nil
}

func (e Event) MarshalYAML() (any, error) {
	switch e.Key {
	case KeyTopic:
		return map[string]string{KeyTopic: e.Topic}, nil
	case KeySNS:
		return map[string]string{KeySNS: e.ARN}, nil
	default:
		return map[string]*yaml.Node{e.Key: e.raw}, nil
	}
}

// Function is a named deployable unit with an ordered event list.
type Function struct {
	Name        string            `yaml:"-"`
	Handler     string            `yaml:"handler,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Events      []Event           `yaml:"events,omitempty"`
}

// FunctionList preserves the declaration order of the functions mapping.
type FunctionList []*Function

func (fl *FunctionList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("functions must be a mapping (line %d)", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		fn := &Function{Name: key.Value}
		if err := val.Decode(fn); err != nil {
			return fmt.Errorf("function %q: %w", key.Value, err)
		}
		*fl = append(*fl, fn)
	}
	return nil
}

func (fl FunctionList) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, fn := range fl {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: fn.Name}
		val := &yaml.Node{}
		if err := val.Encode(fn); err != nil {
			return nil, fmt.Errorf("function %q: %w", fn.Name, err)
		}
		out.Content = append(out.Content, key, val)
	}
	return out, nil
}

// Provider holds deploy target settings.
type Provider struct {
	Region    string `yaml:"region"`
	Stage     string `yaml:"stage,omitempty"`
	Partition string `yaml:"partition,omitempty"`
	StackName string `yaml:"stackName,omitempty"`
}

// Service is the root of the configuration tree.
type Service struct {
	Name      string         `yaml:"service"`
	Provider  Provider       `yaml:"provider"`
	Functions FunctionList   `yaml:"functions,omitempty"`
	Resources map[string]any `yaml:"resources,omitempty"`
}

// Parse decodes a service configuration document.
func Parse(data []byte) (*Service, error) {
	var svc Service
	if err := yaml.Unmarshal(data, &svc); err != nil {
		return nil, fmt.Errorf("parsing service config: %w", err)
	}
	if svc.Name == "" {
		return nil, fmt.Errorf("service config: missing service name")
	}
	if svc.Provider.Region == "" {
		return nil, fmt.Errorf("service config: missing provider region")
	}
	if svc.Provider.Stage == "" {
		svc.Provider.Stage = "dev"
	}
	if svc.Provider.Partition == "" {
		svc.Provider.Partition = "aws"
	}
	return &svc, nil
}

// Encode renders the (possibly rewritten) configuration back to YAML.
func (s *Service) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding service config: %w", err)
	}
	return data, nil
}

// StackName returns the deployed stack's name: the explicit override when
// set, otherwise "<service>-<stage>".
func (s *Service) StackName() string {
	if s.Provider.StackName != "" {
		return s.Provider.StackName
	}
	return s.Name + "-" + s.Provider.Stage
}
