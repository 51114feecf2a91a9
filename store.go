package gofwmod

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-fwmod/docstore"
)

// LoadModuleTypesFromStore reads every module type from the
// firmware_module_type database of store. Documents whose id starts with the
// skip prefix ("_" by default, i.e. design documents) are ignored.
func LoadModuleTypesFromStore(ctx context.Context, store docstore.Store, opts ...Option) ([]ModuleType, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return loadFromStore(ctx, store, docstore.FirmwareModuleTypeDB, "firmware module type", cfg,
		func(id string, body []byte) (ModuleType, error) {
			var t ModuleType
			if err := json.Unmarshal(body, &t); err != nil {
				return t, err
			}
			if t.ID == "" {
				t.ID = id
			}
			return t, nil
		})
}

// LoadModulesFromStore reads every module from the firmware_module database
// of store, skipping design documents.
func LoadModulesFromStore(ctx context.Context, store docstore.Store, opts ...Option) ([]Module, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return loadFromStore(ctx, store, docstore.FirmwareModuleDB, "firmware module", cfg,
		func(id string, body []byte) (Module, error) {
			var m Module
			if err := json.Unmarshal(body, &m); err != nil {
				return m, err
			}
			if m.ID == "" {
				m.ID = id
			}
			return m, nil
		})
}

func loadFromStore[T any](ctx context.Context, store docstore.Store, db, kind string, cfg *config, decode func(id string, body []byte) (T, error)) ([]T, error) {
	logger := cfg.log()
	ids, err := store.IDs(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", db, err)
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if cfg.skipPrefix != "" && strings.HasPrefix(id, cfg.skipPrefix) {
			logger.Debug("skipping document", "db", db, "id", id)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info("parsing "+kind+" from store", "id", id)
		body, err := store.Get(ctx, db, id)
		if err != nil {
			return nil, fmt.Errorf("load %s %q: %w", kind, id, err)
		}
		v, err := decode(id, body)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", kind, id, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SaveModuleTypes writes each module type to the firmware_module_type
// database of w, keyed by its ID.
func SaveModuleTypes(ctx context.Context, w docstore.Writer, types []ModuleType, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	return saveToStore(ctx, w, docstore.FirmwareModuleTypeDB, "firmware module type", cfg, types,
		func(t ModuleType) string { return t.ID })
}

// SaveModules writes each module to the firmware_module database of w.
func SaveModules(ctx context.Context, w docstore.Writer, modules []Module, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	return saveToStore(ctx, w, docstore.FirmwareModuleDB, "firmware module", cfg, modules,
		func(m Module) string { return m.ID })
}

func saveToStore[T any](ctx context.Context, w docstore.Writer, db, kind string, cfg *config, docs []T, id func(T) string) error {
	logger := cfg.log()
	for _, doc := range DedupeBy(docs, id) {
		docID := id(doc)
		if docID == "" {
			return fmt.Errorf("save %s: missing _id", kind)
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode %s %q: %w", kind, docID, err)
		}
		logger.Info("saving "+kind+" to store", "id", docID)
		if err := w.Put(ctx, db, docID, body); err != nil {
			return fmt.Errorf("save %s %q: %w", kind, docID, err)
		}
	}
	return nil
}
