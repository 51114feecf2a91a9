package ast

import (
	"fmt"
	"os"
	"sort"

	"github.com/albertocavalcante/go-fwmod/internal/buildutil"
	"github.com/bazelbuild/buildtools/build"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// ParseResult contains the parsed file and any diagnostics.
type ParseResult struct {
	File     *ManifestFile
	Errors   []*ParseError
	Warnings []*ParseError
}

// HasErrors returns true if there were parse errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Parser parses firmware manifests into AST.
type Parser struct {
	filename string
	errors   []*ParseError
	warnings []*ParseError
}

// ParseFile reads and parses a manifest from disk.
func ParseFile(filename string) (*ParseResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return ParseContent(filename, data)
}

// ParseContent parses manifest content from bytes.
// Syntax errors are returned as an error; semantic problems (missing
// required attributes, malformed values) are reported in ParseResult.Errors.
func ParseContent(filename string, content []byte) (*ParseResult, error) {
	p := &Parser{filename: filename}
	return p.parse(content)
}

func (p *Parser) parse(content []byte) (*ParseResult, error) {
	raw, err := build.ParseDefault(p.filename, content)
	if err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: p.filename},
			Message: fmt.Sprintf("syntax error: %v", err),
			Wrapped: err,
		}
	}

	file := &ManifestFile{
		Path:       p.filename,
		Statements: make([]Statement, 0, len(raw.Stmt)),
		raw:        raw,
	}

	typeNames := make(map[string]Position)
	moduleNames := make(map[string]Position)
	for _, stmt := range raw.Stmt {
		s := p.parseStatement(stmt)
		if s == nil {
			continue
		}
		switch d := s.(type) {
		case *ModuleTypeDecl:
			p.checkDuplicate(typeNames, "firmware_module_type", d.Name, d.Pos)
		case *ModuleDecl:
			p.checkDuplicate(moduleNames, "firmware_module", d.Name, d.Pos)
		}
		file.Statements = append(file.Statements, s)
	}

	return &ParseResult{
		File:     file,
		Errors:   p.errors,
		Warnings: p.warnings,
	}, nil
}

func (p *Parser) checkDuplicate(seen map[string]Position, kind, name string, pos Position) {
	if name == "" {
		return
	}
	if prev, ok := seen[name]; ok {
		p.addWarning(pos, "%s %q redeclared (previous declaration at line %d); the last one wins", kind, name, prev.Line)
	}
	seen[name] = pos
}

func (p *Parser) parseStatement(expr build.Expr) Statement {
	call, ok := expr.(*build.CallExpr)
	if !ok {
		return nil
	}
	pos := p.position(call)
	name := buildutil.FuncName(call)
	if name == "" {
		return nil
	}

	switch name {
	case "firmware_module_type":
		return p.parseModuleType(call, pos)
	case "firmware_module":
		return p.parseModule(call, pos)
	default:
		return &UnknownStatement{
			Pos:      pos,
			FuncName: name,
			Raw:      expr,
		}
	}
}

func (p *Parser) parseModuleType(call *build.CallExpr, pos Position) *ModuleTypeDecl {
	decl := &ModuleTypeDecl{
		Pos:         pos,
		Name:        buildutil.String(call, "name"),
		Description: buildutil.String(call, "description"),
		HeaderFile:  buildutil.String(call, "header_file"),
		ClassName:   buildutil.String(call, "class_name"),
	}

	if decl.Name == "" {
		p.addError(pos, "firmware_module_type: missing required 'name' attribute")
	}
	if decl.HeaderFile == "" {
		p.addError(pos, "firmware_module_type: missing required 'header_file' attribute")
	}
	if decl.ClassName == "" {
		p.addError(pos, "firmware_module_type: missing required 'class_name' attribute")
	}

	if v, ok := p.value(call, "repository"); ok {
		if src, ok := p.source(pos, "repository", v); ok {
			decl.Repository = &src
		}
	}

	if v, ok := p.value(call, "dependencies"); ok {
		list, ok := v.([]any)
		if !ok {
			p.addError(pos, "firmware_module_type: 'dependencies' must be a list")
		} else {
			decl.Dependencies = make([]SourceDecl, 0, len(list))
			for i, item := range list {
				if src, ok := p.source(pos, fmt.Sprintf("dependencies[%d]", i), item); ok {
					decl.Dependencies = append(decl.Dependencies, src)
				}
			}
		}
	}

	if v, ok := p.value(call, "arguments"); ok {
		list, ok := v.([]any)
		if !ok {
			p.addError(pos, "firmware_module_type: 'arguments' must be a list")
		} else {
			decl.Arguments = make([]ArgumentDecl, 0, len(list))
			for i, item := range list {
				if arg, ok := p.argument(pos, i, item); ok {
					decl.Arguments = append(decl.Arguments, arg)
				}
			}
		}
	}

	decl.Inputs = p.ports(call, pos, "firmware_module_type", "inputs")
	decl.Outputs = p.ports(call, pos, "firmware_module_type", "outputs")
	return decl
}

func (p *Parser) parseModule(call *build.CallExpr, pos Position) *ModuleDecl {
	decl := &ModuleDecl{
		Pos:         pos,
		Name:        buildutil.String(call, "name"),
		Type:        buildutil.String(call, "type"),
		Environment: buildutil.String(call, "environment"),
	}

	if decl.Name == "" {
		p.addError(pos, "firmware_module: missing required 'name' attribute")
	}
	if decl.Type == "" {
		p.addError(pos, "firmware_module: missing required 'type' attribute")
	}

	if v, ok := p.value(call, "arguments"); ok {
		list, ok := v.([]any)
		if !ok {
			p.addError(pos, "firmware_module: 'arguments' must be a list")
		} else {
			decl.Arguments = list
		}
	}

	decl.Inputs = p.ports(call, pos, "firmware_module", "inputs")
	decl.Outputs = p.ports(call, pos, "firmware_module", "outputs")
	return decl
}

// value extracts a plain Go value for the named attribute, reporting an
// error when it contains expressions that cannot be evaluated statically.
func (p *Parser) value(call *build.CallExpr, name string) (any, bool) {
	rhs, ok := buildutil.Attr(call, name)
	if !ok {
		return nil, false
	}
	v := buildutil.ExtractValue(rhs)
	if !buildutil.IsPlainValue(v) {
		p.addError(p.position(rhs), "%s: unsupported expression; only literals, lists and dicts are allowed", name)
		return nil, false
	}
	return v, true
}

func (p *Parser) source(pos Position, field string, v any) (SourceDecl, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		p.addError(pos, "%s: must be a dict", field)
		return SourceDecl{}, false
	}
	src := SourceDecl{
		Type:   p.stringField(pos, field, m, "type"),
		URL:    p.stringField(pos, field, m, "url"),
		Branch: p.stringField(pos, field, m, "branch"),
	}
	return src, true
}

func (p *Parser) argument(pos Position, i int, v any) (ArgumentDecl, bool) {
	field := fmt.Sprintf("arguments[%d]", i)
	m, ok := v.(map[string]any)
	if !ok {
		p.addError(pos, "%s: must be a dict", field)
		return ArgumentDecl{}, false
	}
	arg := ArgumentDecl{
		Name:        p.stringField(pos, field, m, "name"),
		Type:        p.stringField(pos, field, m, "type"),
		Description: p.stringField(pos, field, m, "description"),
	}
	if def, ok := m["default"]; ok {
		arg.Default = def
		arg.HasDefault = true
	}
	return arg, true
}

func (p *Parser) ports(call *build.CallExpr, pos Position, kind, name string) map[string]PortDecl {
	v, ok := p.value(call, name)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		p.addError(pos, "%s: '%s' must be a dict", kind, name)
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]PortDecl, len(m))
	for _, portName := range keys {
		field := fmt.Sprintf("%s[%q]", name, portName)
		pm, ok := m[portName].(map[string]any)
		if !ok {
			p.addError(pos, "%s: must be a dict", field)
			continue
		}
		port := PortDecl{
			Type:        p.stringField(pos, field, pm, "type"),
			Description: p.stringField(pos, field, pm, "description"),
		}
		if raw, ok := pm["variable"]; ok {
			if s, ok := raw.(string); ok {
				port.Variable = &s
			} else {
				p.addError(pos, "%s.variable: must be a string", field)
			}
		}
		if raw, ok := pm["categories"]; ok {
			port.Categories = p.stringList(pos, field+".categories", raw)
		}
		out[portName] = port
	}
	return out
}

func (p *Parser) stringField(pos Position, field string, m map[string]any, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		p.addError(pos, "%s.%s: must be a string", field, key)
		return ""
	}
	return s
}

func (p *Parser) stringList(pos Position, field string, v any) []string {
	list, ok := v.([]any)
	if !ok {
		p.addError(pos, "%s: must be a list of strings", field)
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			p.addError(pos, "%s: must be a list of strings", field)
			return nil
		}
		out = append(out, s)
	}
	return out
}

// Helper methods for diagnostics

func (p *Parser) position(expr build.Expr) Position {
	start, _ := expr.Span()
	return Position{
		Filename: p.filename,
		Line:     start.Line,
		Column:   start.LineRune,
	}
}

func (p *Parser) addError(pos Position, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) addWarning(pos Position, format string, args ...any) {
	p.warnings = append(p.warnings, &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}
