package docstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	body := []byte(`{"type": "pwm"}`)
	if err := m.Put(ctx, FirmwareModuleDB, "fan", body); err != nil {
		t.Fatal(err)
	}
	if err := m.Put(ctx, FirmwareModuleDB, "aerator", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	body[0] = 'X'

	ids, err := m.IDs(ctx, FirmwareModuleDB)
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"aerator", "fan"}) {
		t.Errorf("IDs() = %v", ids)
	}
	if ids, _ := m.IDs(ctx, "unknown"); len(ids) != 0 {
		t.Errorf("IDs(unknown) = %v, want empty", ids)
	}

	got, err := m.Get(ctx, FirmwareModuleDB, "fan")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"type": "pwm"}` {
		t.Errorf("Get() = %s, want stored copy unaffected by caller", got)
	}
	got[0] = 'Y'
	again, _ := m.Get(ctx, FirmwareModuleDB, "fan")
	if again[0] != '{' {
		t.Error("Get() returned shared buffer")
	}

	_, err = m.Get(ctx, FirmwareModuleDB, "missing")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("error = %v, want ErrDocumentNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.DB != FirmwareModuleDB || nf.ID != "missing" {
		t.Errorf("NotFoundError = %+v", nf)
	}
	if m.Gets() != 3 {
		t.Errorf("Gets() = %d, want 3", m.Gets())
	}
}

func TestMemory_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	if err := m.Put(ctx, FirmwareModuleDB, "a", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v", err)
	}
	if _, err := m.IDs(ctx, FirmwareModuleDB); !errors.Is(err, context.Canceled) {
		t.Errorf("IDs() error = %v", err)
	}
	if _, err := m.Get(ctx, FirmwareModuleDB, "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v", err)
	}
}
