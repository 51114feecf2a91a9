// Package ast provides AST types for firmware manifest files.
// It wraps github.com/bazelbuild/buildtools/build with higher-level types.
//
// A manifest is a Starlark file declaring module types and modules:
//
//	firmware_module_type(
//	    name = "am2315",
//	    header_file = "openag_am2315.h",
//	    class_name = "Am2315",
//	    repository = {"type": "git", "url": "https://github.com/OpenAgInitiative/openag_am2315.git"},
//	    arguments = [{"name": "address", "type": "int", "default": 92}],
//	    outputs = {"air_temperature": {"type": "std_msgs/Float32"}},
//	)
//
//	firmware_module(
//	    name = "am2315_1",
//	    type = "am2315",
//	    environment = "environment_1",
//	)
package ast

import (
	"github.com/bazelbuild/buildtools/build"
)

// Position represents a source position for diagnostics.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// ManifestFile represents a parsed firmware manifest.
type ManifestFile struct {
	Path       string
	Statements []Statement
	raw        *build.File
}

// Raw returns the underlying buildtools File for advanced use cases.
func (f *ManifestFile) Raw() *build.File {
	return f.raw
}

// Statement is the interface for all manifest statements.
type Statement interface {
	Position() Position
	isStatement()
}

// SourceDecl is a {"type": ..., "url": ...} dict.
type SourceDecl struct {
	Type   string
	URL    string
	Branch string
}

// ArgumentDecl is one entry of a module type's arguments list.
type ArgumentDecl struct {
	Name        string
	Type        string
	Description string
	Default     any
	HasDefault  bool
}

// PortDecl is one entry of an inputs or outputs dict.
type PortDecl struct {
	Type        string
	Description string
	Variable    *string
	Categories  []string
}

// ModuleTypeDecl represents a firmware_module_type() declaration.
type ModuleTypeDecl struct {
	Pos          Position
	Name         string
	Description  string
	HeaderFile   string
	ClassName    string
	Repository   *SourceDecl
	Dependencies []SourceDecl
	Arguments    []ArgumentDecl
	Inputs       map[string]PortDecl
	Outputs      map[string]PortDecl
}

func (d *ModuleTypeDecl) Position() Position { return d.Pos }
func (d *ModuleTypeDecl) isStatement()       {}

// ModuleDecl represents a firmware_module() declaration.
type ModuleDecl struct {
	Pos         Position
	Name        string
	Type        string
	Environment string
	Arguments   []any
	Inputs      map[string]PortDecl
	Outputs     map[string]PortDecl
}

func (d *ModuleDecl) Position() Position { return d.Pos }
func (d *ModuleDecl) isStatement()       {}

// UnknownStatement represents an unrecognized function call.
type UnknownStatement struct {
	Pos      Position
	FuncName string
	Raw      build.Expr
}

func (u *UnknownStatement) Position() Position { return u.Pos }
func (u *UnknownStatement) isStatement()       {}
