package gofwmod

import (
	"maps"
	"slices"
)

// TypeCatalog maps module type ids to their definitions.
type TypeCatalog map[string]ModuleType

// Lookup returns the module type with the given id and whether it exists.
func (c TypeCatalog) Lookup(id string) (ModuleType, bool) {
	t, ok := c[id]
	return t, ok
}

// IDs returns the catalog's type ids in sorted order.
func (c TypeCatalog) IDs() []string {
	return slices.Sorted(maps.Keys(c))
}

// NewTypeCatalog indexes module types by ID. Later entries win on duplicate ids.
func NewTypeCatalog(types []ModuleType) TypeCatalog {
	return IndexByID(types, func(t ModuleType) string { return t.ID })
}

// ModuleCatalog maps module ids to module instances.
type ModuleCatalog map[string]Module

// Lookup returns the module with the given id and whether it exists.
func (c ModuleCatalog) Lookup(id string) (Module, bool) {
	m, ok := c[id]
	return m, ok
}

// IDs returns the catalog's module ids in sorted order.
func (c ModuleCatalog) IDs() []string {
	return slices.Sorted(maps.Keys(c))
}

// NewModuleCatalog indexes modules by ID. Later entries win on duplicate ids.
func NewModuleCatalog(modules []Module) ModuleCatalog {
	return IndexByID(modules, func(m Module) string { return m.ID })
}

// CheckReferences reports every module whose type is missing from types.
// Callers that want partial results can run it before Synthesize and drop
// the offending modules.
func CheckReferences(modules map[string]Module, types map[string]ModuleType) error {
	var errs ValidationErrors
	catalog := TypeCatalog(types)
	for _, id := range ModuleCatalog(modules).IDs() {
		mod := modules[id]
		if mod.Type == "" {
			errs.Add(`modules["`+id+`"].type`, "required field is missing")
			continue
		}
		if _, ok := catalog.Lookup(mod.Type); !ok {
			errs.Add(`modules["`+id+`"].type`, "unknown module type "+quote(mod.Type))
		}
	}
	return errs.ToError()
}

func quote(s string) string {
	return `"` + s + `"`
}
