package gofwmod

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category tags classify a port as a sensor-like or actuator-like signal.
// Downstream code generation routes ports by these tags.
const (
	CategorySensors     = "sensors"
	CategoryActuators   = "actuators"
	CategoryCalibration = "calibration"
)

// Source describes where code for a module type (or one of its
// dependencies) can be fetched from.
type Source struct {
	// Type is the source kind, e.g. "git" or "pio" (PlatformIO library).
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// URL is the location of the source.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Branch optionally pins a git branch.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// Argument describes a positional constructor argument of a module type.
//
// Default presence is tracked by HasDefault rather than by Default being
// non-nil, so an explicit null default still counts as a default.
type Argument struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Default is the value used when a module omits this argument.
	// Only meaningful when HasDefault is true.
	Default    any  `json:"-" yaml:"-"`
	HasDefault bool `json:"-" yaml:"-"`
}

// NewArgument returns an argument with no default.
func NewArgument(name string) Argument {
	return Argument{Name: name}
}

// WithDefault returns a copy of a with the given default set.
func (a Argument) WithDefault(v any) Argument {
	a.Default = v
	a.HasDefault = true
	return a
}

type argumentFields struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// UnmarshalJSON decodes an argument, recording whether a "default" key was present.
func (a *Argument) UnmarshalJSON(data []byte) error {
	var fields argumentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Argument{Name: fields.Name, Type: fields.Type, Description: fields.Description}
	if rawDefault, ok := raw["default"]; ok {
		var v any
		dec := json.NewDecoder(bytes.NewReader(rawDefault))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("argument %q default: %w", fields.Name, err)
		}
		a.Default = normalizeNumber(v)
		a.HasDefault = true
	}
	return nil
}

// MarshalJSON encodes an argument, emitting "default" only when present.
func (a Argument) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if a.Name != "" {
		out["name"] = a.Name
	}
	if a.Type != "" {
		out["type"] = a.Type
	}
	if a.Description != "" {
		out["description"] = a.Description
	}
	if a.HasDefault {
		out["default"] = a.Default
	}
	return json.Marshal(out)
}

// UnmarshalYAML decodes an argument from a YAML mapping node.
func (a *Argument) UnmarshalYAML(node *yaml.Node) error {
	var fields argumentFields
	if err := node.Decode(&fields); err != nil {
		return err
	}
	*a = Argument{Name: fields.Name, Type: fields.Type, Description: fields.Description}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "default" {
			continue
		}
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("argument %q default: %w", fields.Name, err)
		}
		a.Default = normalizeYAML(v)
		a.HasDefault = true
	}
	return nil
}

// Port is the routing metadata of a module input or output.
//
// Every field is optional. A nil Variable or nil Categories means the field
// is absent; an empty non-nil Categories slice is an explicit empty list.
// Categories is encoded as null or [] accordingly, never omitted.
type Port struct {
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Variable    *string  `json:"variable,omitempty" yaml:"variable,omitempty"`
	Categories  []string `json:"categories" yaml:"categories,omitempty"`
}

// ModuleType is a reusable schema describing a class of firmware component.
type ModuleType struct {
	ID          string `json:"_id" yaml:"_id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Repository is where the type's code lives. Nil when undefined.
	Repository *Source `json:"repository,omitempty" yaml:"repository,omitempty"`

	HeaderFile string `json:"header_file" yaml:"header_file"`
	ClassName  string `json:"class_name" yaml:"class_name"`

	// Dependencies lists libraries the type needs. Nil when undefined,
	// encoded as null so an empty list survives a JSON round trip.
	Dependencies []Source `json:"dependencies" yaml:"dependencies,omitempty"`

	Arguments []Argument      `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Inputs    map[string]Port `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs   map[string]Port `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Module is a concrete configured instance of a module type.
type Module struct {
	ID          string `json:"_id" yaml:"_id"`
	Type        string `json:"type" yaml:"type"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// Arguments are positional constructor values. May be shorter than the
	// type's argument list when the missing tail has defaults.
	Arguments []any `json:"arguments,omitempty" yaml:"arguments,omitempty"`

	// Inputs and Outputs override the type's port descriptors per name.
	Inputs  map[string]Port `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs map[string]Port `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	// These are normally inherited from the type; see Synthesize for which
	// instance values survive.
	Repository   *Source  `json:"repository,omitempty" yaml:"repository,omitempty"`
	HeaderFile   string   `json:"header_file,omitempty" yaml:"header_file,omitempty"`
	ClassName    string   `json:"class_name,omitempty" yaml:"class_name,omitempty"`
	Dependencies []Source `json:"dependencies" yaml:"dependencies,omitempty"`
}

// UnmarshalJSON decodes a module, keeping integer arguments as int64 and
// other numbers as float64.
func (m *Module) UnmarshalJSON(data []byte) error {
	type plain Module
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	for i, v := range p.Arguments {
		p.Arguments[i] = normalizeNumber(v)
	}
	*m = Module(p)
	return nil
}

// UnmarshalYAML decodes a module, converting nested YAML maps to map[string]any.
func (m *Module) UnmarshalYAML(node *yaml.Node) error {
	type plain Module
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	for i, v := range p.Arguments {
		p.Arguments[i] = normalizeYAML(v)
	}
	*m = Module(p)
	return nil
}

// ResolvedModule is a module with every type-level field folded in.
type ResolvedModule struct {
	ID           string          `json:"_id"`
	Type         string          `json:"type"`
	Environment  string          `json:"environment,omitempty"`
	Repository   *Source         `json:"repository,omitempty"`
	HeaderFile   string          `json:"header_file"`
	ClassName    string          `json:"class_name"`
	Dependencies []Source        `json:"dependencies"`
	Arguments    []any           `json:"arguments"`
	Inputs       map[string]Port `json:"inputs"`
	Outputs      map[string]Port `json:"outputs"`
}

// normalizeNumber converts json.Number values (at any depth) into int64
// when integral and float64 otherwise.
func normalizeNumber(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = normalizeNumber(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeNumber(x[k])
		}
		return x
	default:
		return v
	}
}

// normalizeYAML converts yaml.v3 decoded values into the shapes encoding/json
// produces: map[string]any for mappings and int64 for integers.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeYAML(x[k])
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
