package gofwmod

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-fwmod/ast"
)

func TestParseManifestContent(t *testing.T) {
	content := `
firmware_module_type(
    name = "pwm",
    header_file = "openag_pwm.h",
    class_name = "PwmActuator",
    repository = {"type": "git", "url": "https://github.com/OpenAgInitiative/openag_pwm.git"},
    arguments = [{"name": "pin"}, {"name": "is_active_low", "default": True}],
    inputs = {"cmd": {"type": "std_msgs/Float32"}},
)

firmware_module(
    name = "fan",
    type = "pwm",
    arguments = [3],
    inputs = {"cmd": {"variable": "fan_speed"}},
)

register_toolchains()
`
	m, err := ParseManifestContent("firmware.star", []byte(content))
	if err != nil {
		t.Fatalf("ParseManifestContent() error = %v", err)
	}
	if len(m.ModuleTypes) != 1 || len(m.Modules) != 1 {
		t.Fatalf("got %d types, %d modules", len(m.ModuleTypes), len(m.Modules))
	}
	if len(m.Warnings) != 1 || !strings.Contains(m.Warnings[0], "register_toolchains") {
		t.Errorf("Warnings = %v", m.Warnings)
	}

	mt := m.ModuleTypes[0]
	if mt.Repository == nil || mt.Repository.URL != "https://github.com/OpenAgInitiative/openag_pwm.git" {
		t.Errorf("Repository = %+v", mt.Repository)
	}
	if !mt.Arguments[1].HasDefault || mt.Arguments[1].Default != true {
		t.Errorf("Arguments = %+v", mt.Arguments)
	}

	// A manifest-declared catalog synthesizes like any other source.
	resolved, err := SynthesizeAll(m.Modules, m.ModuleTypes)
	if err != nil {
		t.Fatalf("SynthesizeAll() error = %v", err)
	}
	fan := resolved["fan"]
	if fan.ClassName != "PwmActuator" {
		t.Errorf("ClassName = %q", fan.ClassName)
	}
	if len(fan.Arguments) != 2 || fan.Arguments[0] != int64(3) || fan.Arguments[1] != true {
		t.Errorf("Arguments = %#v", fan.Arguments)
	}
	if fan.Inputs["cmd"].VariableName() != "fan_speed" {
		t.Errorf("cmd variable = %q", fan.Inputs["cmd"].VariableName())
	}
}

func TestParseManifestContent_Errors(t *testing.T) {
	content := `
firmware_module(name = "a")
firmware_module(type = "t")
`
	_, err := ParseManifestContent("firmware.star", []byte(content))
	var merr *ManifestError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want *ManifestError", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2", len(merr.Errors))
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("error = %q", err.Error())
	}
	var perr *ast.ParseError
	if !errors.As(err, &perr) {
		t.Error("ManifestError should unwrap to *ast.ParseError")
	}
}

func TestParseManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.star")
	writeFile(t, path, `firmware_module(name = "m", type = "t")`)

	m, err := ParseManifestFile(path)
	if err != nil {
		t.Fatalf("ParseManifestFile() error = %v", err)
	}
	if len(m.Modules) != 1 || m.Modules[0].ID != "m" || m.Modules[0].Type != "t" {
		t.Errorf("Modules = %+v", m.Modules)
	}

	if _, err := ParseManifestFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
