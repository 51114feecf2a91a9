package gofwmod

import (
	"maps"
	"slices"
)

// Synthesize resolves every module against its type and returns the results
// keyed by module id.
//
// For each module:
//   - Repository and Dependencies are taken from the type when the type
//     defines them; HeaderFile and ClassName always come from the type.
//   - Arguments are padded to the type's length with type defaults, filling
//     strictly left to right.
//   - Every input and output declared on the type is merged with the
//     module's override for the same name. Variable defaults to the port name;
//     Categories defaults to [actuators] for inputs and [sensors] for outputs.
//
// Modules are processed in sorted id order and the first failure aborts the
// call. Use SynthesizeModule to isolate failures per module.
//
// Neither input mapping is modified, and the result shares no mutable state
// with them.
func Synthesize(modules map[string]Module, types map[string]ModuleType, opts ...Option) (map[string]ResolvedModule, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	catalog := TypeCatalog(types)
	res := make(map[string]ResolvedModule, len(modules))
	for _, id := range ModuleCatalog(modules).IDs() {
		resolved, err := synthesizeModule(id, modules[id], catalog, cfg)
		if err != nil {
			return nil, err
		}
		res[id] = resolved
	}
	return res, nil
}

// SynthesizeModule resolves a single module against the type catalog.
func SynthesizeModule(id string, mod Module, types TypeCatalog, opts ...Option) (ResolvedModule, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return ResolvedModule{}, err
	}
	return synthesizeModule(id, mod, types, cfg)
}

func synthesizeModule(id string, mod Module, types TypeCatalog, cfg *config) (ResolvedModule, error) {
	modType, ok := types.Lookup(mod.Type)
	if !ok {
		return ResolvedModule{}, &ReferenceError{ModuleID: id, TypeID: mod.Type}
	}

	res := ResolvedModule{
		ID:           mod.ID,
		Type:         mod.Type,
		Environment:  mod.Environment,
		Repository:   cloneSource(mod.Repository),
		HeaderFile:   modType.HeaderFile,
		ClassName:    modType.ClassName,
		Dependencies: cloneSources(mod.Dependencies),
	}
	if res.ID == "" {
		res.ID = id
	}
	if modType.Repository != nil {
		res.Repository = cloneSource(modType.Repository)
	}
	if modType.Dependencies != nil {
		res.Dependencies = cloneSources(modType.Dependencies)
	}

	args, err := resolveArguments(id, mod.Arguments, modType.Arguments)
	if err != nil {
		return ResolvedModule{}, err
	}
	res.Arguments = args

	res.Inputs = resolvePorts(modType.Inputs, mod.Inputs, CategoryActuators, cfg.keepInstanceOnlyPorts)
	res.Outputs = resolvePorts(modType.Outputs, mod.Outputs, CategorySensors, cfg.keepInstanceOnlyPorts)
	return res, nil
}

// resolveArguments pads args with type defaults up to len(typeArgs).
func resolveArguments(id string, args []any, typeArgs []Argument) ([]any, error) {
	if len(args) > len(typeArgs) {
		return nil, &ArgumentError{
			ModuleID: id,
			Got:      len(args),
			Expected: len(typeArgs),
			Reason:   ErrTooManyArguments,
		}
	}
	out := make([]any, 0, len(typeArgs))
	for _, v := range args {
		out = append(out, cloneValue(v))
	}
	for i := len(args); i < len(typeArgs); i++ {
		if !typeArgs[i].HasDefault {
			return nil, &ArgumentError{
				ModuleID: id,
				Got:      len(out),
				Expected: len(typeArgs),
				Reason:   ErrNotEnoughArguments,
			}
		}
		out = append(out, cloneValue(typeArgs[i].Default))
	}
	return out, nil
}

// resolvePorts merges module port overrides into the type's ports.
func resolvePorts(typePorts, modPorts map[string]Port, category string, keepExtra bool) map[string]Port {
	out := make(map[string]Port, len(typePorts))
	for _, name := range slices.Sorted(maps.Keys(typePorts)) {
		merged := typePorts[name].Overlay(modPorts[name])
		out[name] = merged.withFallbacks(name, category)
	}
	if !keepExtra {
		return out
	}
	for name, p := range modPorts {
		if _, ok := typePorts[name]; ok {
			continue
		}
		out[name] = p.Clone().withFallbacks(name, category)
	}
	return out
}

// Overlay returns a copy of p with every field set on over replacing the
// corresponding field of p. Fields absent from over are kept from p.
//
// Type and Description are plain strings, so an empty string on over counts
// as absent and cannot clear the value from p. Variable and Categories track
// presence separately: a non-nil empty Categories does replace p's list.
func (p Port) Overlay(over Port) Port {
	res := p.Clone()
	if over.Type != "" {
		res.Type = over.Type
	}
	if over.Description != "" {
		res.Description = over.Description
	}
	if over.Variable != nil {
		v := *over.Variable
		res.Variable = &v
	}
	if over.Categories != nil {
		res.Categories = slices.Clone(over.Categories)
	}
	return res
}

// Clone returns a deep copy of p.
func (p Port) Clone() Port {
	res := p
	if p.Variable != nil {
		v := *p.Variable
		res.Variable = &v
	}
	if p.Categories != nil {
		res.Categories = slices.Clone(p.Categories)
	}
	return res
}

func (p Port) withFallbacks(name, category string) Port {
	if p.Variable == nil {
		v := name
		p.Variable = &v
	}
	if p.Categories == nil {
		p.Categories = []string{category}
	}
	return p
}

// VariableName returns the port's variable, or "" if unset.
func (p Port) VariableName() string {
	if p.Variable == nil {
		return ""
	}
	return *p.Variable
}

func cloneSource(s *Source) *Source {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneSources(s []Source) []Source {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// cloneValue deep-copies the container shapes produced by the decoders
// (maps, slices) so resolved arguments never alias input arguments.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return slices.Clone(x)
	case map[string]string:
		return maps.Clone(x)
	default:
		return v
	}
}
