package gofwmod

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/albertocavalcante/go-fwmod/ast"
)

// Manifest holds the module types and modules declared in a manifest file.
type Manifest struct {
	ModuleTypes []ModuleType
	Modules     []Module

	// Warnings are non-fatal diagnostics such as redeclarations or unknown
	// statements.
	Warnings []string
}

// ManifestError reports every semantic error found in a manifest.
type ManifestError struct {
	Path   string
	Errors []*ast.ParseError
}

func (e *ManifestError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d errors:", e.Path, len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap returns the individual parse errors.
func (e *ManifestError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// ParseManifestFile reads and parses a firmware manifest from disk.
func ParseManifestFile(filename string, opts ...Option) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifestContent(filename, data, opts...)
}

// ParseManifestContent parses firmware manifest content. filename is only
// used in diagnostics.
func ParseManifestContent(filename string, content []byte, opts ...Option) (*Manifest, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	result, err := ast.ParseContent(filename, content)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if result.HasErrors() {
		return nil, &ManifestError{Path: filename, Errors: result.Errors}
	}

	c := &manifestCollector{logger: cfg.log()}
	for _, w := range result.Warnings {
		c.manifest.Warnings = append(c.manifest.Warnings, w.Error())
	}
	if err := ast.Walk(result.File, c); err != nil {
		return nil, err
	}
	return &c.manifest, nil
}

// manifestCollector converts manifest declarations into catalog types.
type manifestCollector struct {
	ast.BaseHandler
	logger   *slog.Logger
	manifest Manifest
}

func (c *manifestCollector) ModuleType(decl *ast.ModuleTypeDecl) error {
	c.logger.Debug("manifest module type", "name", decl.Name, "line", decl.Pos.Line)
	t := ModuleType{
		ID:          decl.Name,
		Description: decl.Description,
		HeaderFile:  decl.HeaderFile,
		ClassName:   decl.ClassName,
		Inputs:      portsFromDecl(decl.Inputs),
		Outputs:     portsFromDecl(decl.Outputs),
	}
	if decl.Repository != nil {
		src := Source(*decl.Repository)
		t.Repository = &src
	}
	if decl.Dependencies != nil {
		t.Dependencies = make([]Source, len(decl.Dependencies))
		for i, d := range decl.Dependencies {
			t.Dependencies[i] = Source(d)
		}
	}
	if decl.Arguments != nil {
		t.Arguments = make([]Argument, len(decl.Arguments))
		for i, a := range decl.Arguments {
			t.Arguments[i] = Argument{
				Name:        a.Name,
				Type:        a.Type,
				Description: a.Description,
				Default:     a.Default,
				HasDefault:  a.HasDefault,
			}
		}
	}
	c.manifest.ModuleTypes = append(c.manifest.ModuleTypes, t)
	return nil
}

func (c *manifestCollector) Module(decl *ast.ModuleDecl) error {
	c.logger.Debug("manifest module", "name", decl.Name, "type", decl.Type, "line", decl.Pos.Line)
	c.manifest.Modules = append(c.manifest.Modules, Module{
		ID:          decl.Name,
		Type:        decl.Type,
		Environment: decl.Environment,
		Arguments:   decl.Arguments,
		Inputs:      portsFromDecl(decl.Inputs),
		Outputs:     portsFromDecl(decl.Outputs),
	})
	return nil
}

func (c *manifestCollector) UnknownStatement(name string, pos ast.Position) error {
	c.manifest.Warnings = append(c.manifest.Warnings,
		fmt.Sprintf("%s:%d:%d: ignoring unknown statement %s()", pos.Filename, pos.Line, pos.Column, name))
	return nil
}

func portsFromDecl(decls map[string]ast.PortDecl) map[string]Port {
	if decls == nil {
		return nil
	}
	out := make(map[string]Port, len(decls))
	for name, d := range decls {
		out[name] = Port(d)
	}
	return out
}
