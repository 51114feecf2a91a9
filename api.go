// Package gofwmod provides metadata synthesis for a firmware module registry.
//
// A registry holds two catalogs:
//
//   - module types: reusable schemas describing a firmware component's
//     header file, class name, constructor arguments, inputs and outputs
//   - modules: configured instances that reference a module type and may
//     override its arguments and port metadata
//
// Synthesize merges each module with its type into a self-contained
// ResolvedModule for code generation.
//
// # Quick Start
//
//	types, err := gofwmod.LoadModuleTypesFromLib(ctx, "lib")
//	modules, err := gofwmod.LoadModulesFile("modules.json")
//	resolved, err := gofwmod.SynthesizeAll(modules, types)
//
// # Sources
//
// Catalogs can be loaded from:
//
//   - a library directory with one module.json/module.yaml per subdirectory
//     (LoadModuleTypesFromLib)
//   - a document store (LoadModuleTypesFromStore, LoadModulesFromStore; see
//     package docstore)
//   - a Starlark manifest (ParseManifestFile)
//   - a JSON or YAML module list (LoadModulesFile)
//
// # Thread Safety
//
// Synthesize never modifies its inputs and is safe for concurrent use.
// Library and the docstore implementations are safe for concurrent use.
package gofwmod

// SynthesizeAll indexes modules and types by id and synthesizes them.
// Later entries win when ids repeat.
func SynthesizeAll(modules []Module, types []ModuleType, opts ...Option) (map[string]ResolvedModule, error) {
	return Synthesize(NewModuleCatalog(modules), NewTypeCatalog(types), opts...)
}
