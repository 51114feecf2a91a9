package gofwmod

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-fwmod/docstore"
)

func newTestStore() *docstore.Memory {
	ctx := context.Background()
	s := docstore.NewMemory()
	s.Put(ctx, docstore.FirmwareModuleTypeDB, "am2315", []byte(`{
		"header_file": "openag_am2315.h",
		"class_name": "Am2315",
		"arguments": [{"name": "address", "default": 92}],
		"outputs": {"air_temperature": {"type": "std_msgs/Float32"}}
	}`))
	s.Put(ctx, docstore.FirmwareModuleTypeDB, "_design/openag", []byte(`{"views": {}}`))
	s.Put(ctx, docstore.FirmwareModuleDB, "am2315_1", []byte(`{"type": "am2315", "environment": "environment_1"}`))
	s.Put(ctx, docstore.FirmwareModuleDB, "_design/openag", []byte(`{"views": {}}`))
	return s
}

func TestLoadFromStore(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	types, err := LoadModuleTypesFromStore(ctx, store)
	if err != nil {
		t.Fatalf("LoadModuleTypesFromStore() error = %v", err)
	}
	if len(types) != 1 || types[0].ID != "am2315" {
		t.Fatalf("types = %+v, want am2315 only", types)
	}

	modules, err := LoadModulesFromStore(ctx, store)
	if err != nil {
		t.Fatalf("LoadModulesFromStore() error = %v", err)
	}
	if len(modules) != 1 || modules[0].ID != "am2315_1" {
		t.Fatalf("modules = %+v, want am2315_1 only", modules)
	}

	resolved, err := SynthesizeAll(modules, types)
	if err != nil {
		t.Fatalf("SynthesizeAll() error = %v", err)
	}
	r := resolved["am2315_1"]
	if len(r.Arguments) != 1 || r.Arguments[0] != int64(92) {
		t.Errorf("Arguments = %#v, want [92]", r.Arguments)
	}
	if r.Outputs["air_temperature"].VariableName() != "air_temperature" {
		t.Errorf("Outputs = %+v", r.Outputs)
	}
}

func TestLoadFromStore_SkipPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.Put(ctx, docstore.FirmwareModuleDB, "_design/openag", []byte(`{"type": "am2315"}`))

	modules, err := LoadModulesFromStore(ctx, store, WithSkipPrefix(""))
	if err != nil {
		t.Fatalf("LoadModulesFromStore() error = %v", err)
	}
	if len(modules) != 2 {
		t.Errorf("len(modules) = %d, want design document included", len(modules))
	}
}

func TestLoadFromStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	store.Put(ctx, docstore.FirmwareModuleDB, "bad", []byte(`{"type": `))

	_, err := LoadModulesFromStore(ctx, store)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if want := `parse firmware module "bad"`; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want %q", err, want)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := LoadModuleTypesFromStore(canceled, newTestStore()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoadFromStore_Cached(t *testing.T) {
	mem := newTestStore()
	cached, err := docstore.NewCached(mem, 8)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for range 3 {
		if _, err := LoadModuleTypesFromStore(ctx, cached); err != nil {
			t.Fatal(err)
		}
	}
	if mem.Gets() != 1 {
		t.Errorf("underlying Gets = %d, want 1", mem.Gets())
	}
}

func TestSaveToStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	types := []ModuleType{
		{ID: "pwm", HeaderFile: "old.h", ClassName: "Pwm"},
		{
			ID:         "pwm",
			HeaderFile: "openag_pwm.h",
			ClassName:  "PwmActuator",
			Arguments:  []Argument{NewArgument("pin"), NewArgument("is_active_low").WithDefault(true)},
			Inputs:     map[string]Port{"cmd": {Type: "std_msgs/Float32"}},
		},
	}
	modules := []Module{{ID: "fan", Type: "pwm", Arguments: []any{int64(3)}}}

	if err := SaveModuleTypes(ctx, store, types); err != nil {
		t.Fatalf("SaveModuleTypes() error = %v", err)
	}
	if err := SaveModules(ctx, store, modules); err != nil {
		t.Fatalf("SaveModules() error = %v", err)
	}

	gotTypes, err := LoadModuleTypesFromStore(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotTypes) != 1 || gotTypes[0].HeaderFile != "openag_pwm.h" {
		t.Fatalf("types = %+v, want last definition saved once", gotTypes)
	}
	if !gotTypes[0].Arguments[1].HasDefault {
		t.Error("argument default lost in round trip")
	}

	gotModules, err := LoadModulesFromStore(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	resolved, err := SynthesizeAll(gotModules, gotTypes)
	if err != nil {
		t.Fatalf("SynthesizeAll() error = %v", err)
	}
	if args := resolved["fan"].Arguments; len(args) != 2 || args[0] != int64(3) || args[1] != true {
		t.Errorf("Arguments = %#v", args)
	}

	if err := SaveModules(ctx, store, []Module{{Type: "pwm"}}); err == nil {
		t.Error("expected error for module without _id")
	}
}

func TestSaveToStore_EmptyListsSurvive(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	types := []ModuleType{{
		ID:           "relay",
		HeaderFile:   "openag_relay.h",
		ClassName:    "Relay",
		Dependencies: []Source{},
		Inputs:       map[string]Port{"in": {Categories: []string{}}},
		Outputs:      map[string]Port{"state": {Type: "std_msgs/Bool"}},
	}}
	modules := []Module{{
		ID:           "relay_1",
		Type:         "relay",
		Dependencies: []Source{{Type: "git", URL: "https://example.com/extra.git"}},
	}}

	direct, err := SynthesizeAll(modules, types)
	if err != nil {
		t.Fatal(err)
	}

	if err := SaveModuleTypes(ctx, store, types); err != nil {
		t.Fatal(err)
	}
	if err := SaveModules(ctx, store, modules); err != nil {
		t.Fatal(err)
	}
	gotTypes, err := LoadModuleTypesFromStore(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	gotModules, err := LoadModulesFromStore(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	reloaded, err := SynthesizeAll(gotModules, gotTypes)
	if err != nil {
		t.Fatal(err)
	}

	for name, r := range map[string]ResolvedModule{"direct": direct["relay_1"], "reloaded": reloaded["relay_1"]} {
		if c := r.Inputs["in"].Categories; c == nil || len(c) != 0 {
			t.Errorf("%s: in.Categories = %#v, want empty non-nil", name, c)
		}
		if c := r.Outputs["state"].Categories; len(c) != 1 || c[0] != "sensors" {
			t.Errorf("%s: state.Categories = %#v, want [sensors]", name, c)
		}
		if r.Dependencies == nil || len(r.Dependencies) != 0 {
			t.Errorf("%s: Dependencies = %#v, want empty non-nil from type", name, r.Dependencies)
		}
	}

	data, err := json.Marshal(direct["relay_1"].Inputs["in"])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"categories":[]`) {
		t.Errorf("resolved port JSON = %s, want categories key", data)
	}
}
