package gofwmod

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCatalog_Lookup(t *testing.T) {
	types := NewTypeCatalog([]ModuleType{{ID: "b"}, {ID: "a"}})
	if _, ok := types.Lookup("a"); !ok {
		t.Error("Lookup(a) not found")
	}
	if _, ok := types.Lookup("c"); ok {
		t.Error("Lookup(c) should not be found")
	}
	if got := types.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("IDs() = %v", got)
	}

	modules := NewModuleCatalog([]Module{{ID: "z", Type: "a"}, {ID: "y", Type: "b"}})
	if m, ok := modules.Lookup("z"); !ok || m.Type != "a" {
		t.Errorf("Lookup(z) = %+v, %v", m, ok)
	}
	if got := modules.IDs(); !reflect.DeepEqual(got, []string{"y", "z"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestCheckReferences(t *testing.T) {
	types := map[string]ModuleType{"T": {ID: "T"}}

	if err := CheckReferences(map[string]Module{"ok": {Type: "T"}}, types); err != nil {
		t.Errorf("CheckReferences() error = %v", err)
	}

	err := CheckReferences(map[string]Module{
		"ok":      {Type: "T"},
		"missing": {Type: "nope"},
		"empty":   {},
	}, types)
	var verr *ValidationErrors
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationErrors", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(verr.Errors))
	}
	if verr.Errors[0].Field != `modules["empty"].type` || verr.Errors[0].Message != "required field is missing" {
		t.Errorf("Errors[0] = %+v", verr.Errors[0])
	}
	if !strings.Contains(verr.Errors[1].Message, `unknown module type "nope"`) {
		t.Errorf("Errors[1] = %+v", verr.Errors[1])
	}
	if !strings.HasPrefix(err.Error(), "2 validation errors:") {
		t.Errorf("Error() = %q", err.Error())
	}
}
