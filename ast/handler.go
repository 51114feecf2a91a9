package ast

// Handler processes manifest statements.
// Each method returns an error to stop processing, or nil to continue.
type Handler interface {
	// ModuleType is called for each firmware_module_type() declaration.
	ModuleType(decl *ModuleTypeDecl) error

	// Module is called for each firmware_module() declaration.
	Module(decl *ModuleDecl) error

	// UnknownStatement is called for unrecognized function calls.
	UnknownStatement(name string, pos Position) error
}

// Walk traverses a ManifestFile in source order and calls the handler for
// each statement.
func Walk(file *ManifestFile, handler Handler) error {
	for _, stmt := range file.Statements {
		if err := walkStatement(stmt, handler); err != nil {
			return err
		}
	}
	return nil
}

func walkStatement(stmt Statement, handler Handler) error {
	switch s := stmt.(type) {
	case *ModuleTypeDecl:
		return handler.ModuleType(s)
	case *ModuleDecl:
		return handler.Module(s)
	case *UnknownStatement:
		return handler.UnknownStatement(s.FuncName, s.Pos)
	}
	return nil
}

// BaseHandler provides no-op implementations of all Handler methods.
// Embed this in your handler to only implement the methods you need.
type BaseHandler struct{}

func (BaseHandler) ModuleType(*ModuleTypeDecl) error        { return nil }
func (BaseHandler) Module(*ModuleDecl) error                { return nil }
func (BaseHandler) UnknownStatement(string, Position) error { return nil }
