package main

import (
	"context"
	"errors"
	"log/slog"

	gofwmod "github.com/albertocavalcante/go-fwmod"
	"github.com/albertocavalcante/go-fwmod/docstore"
)

// FileFlags selects local catalog sources.
type FileFlags struct {
	Lib      string   `help:"Library directory with one module descriptor per subdirectory." type:"path" env:"FWMOD_LIB"`
	Manifest []string `help:"Starlark manifest declaring module types and modules." sep:"none"`
	Modules  []string `help:"JSON or YAML file holding a list of modules." sep:"none"`
}

// StoreFlags selects a document store.
type StoreFlags struct {
	PGDSN   string `name:"pg-dsn" help:"Postgres document store DSN." env:"FWMOD_PG_DSN"`
	PGTable string `name:"pg-table" help:"Postgres document table." env:"FWMOD_PG_TABLE"`

	S3Endpoint  string `name:"s3-endpoint" help:"S3 document store endpoint (host:port)." env:"FWMOD_S3_ENDPOINT"`
	S3Region    string `name:"s3-region" help:"S3 region." env:"FWMOD_S3_REGION"`
	S3AccessKey string `name:"s3-access-key" help:"S3 access key." env:"FWMOD_S3_ACCESS_KEY"`
	S3SecretKey string `name:"s3-secret-key" help:"S3 secret key." env:"FWMOD_S3_SECRET_KEY"`
	S3Bucket    string `name:"s3-bucket" help:"S3 bucket." env:"FWMOD_S3_BUCKET"`
	S3Prefix    string `name:"s3-prefix" help:"Object key prefix inside the bucket." env:"FWMOD_S3_PREFIX"`
	S3SSL       bool   `name:"s3-ssl" help:"Use TLS for the S3 endpoint." env:"FWMOD_S3_SSL"`
}

// SourceFlags selects where module types and modules are loaded from.
// Every configured source contributes; later sources win on duplicate ids
// in the order lib, store, manifests, module files.
type SourceFlags struct {
	FileFlags  `embed:""`
	StoreFlags `embed:""`
}

// documentStore is a store that can be read and written.
type documentStore interface {
	docstore.Store
	docstore.Writer
}

// catalogs is the combined result of every configured source.
type catalogs struct {
	types   []gofwmod.ModuleType
	modules []gofwmod.Module
}

func (s *SourceFlags) load(ctx context.Context, logger *slog.Logger) (*catalogs, error) {
	if s.Lib == "" && s.PGDSN == "" && s.S3Endpoint == "" && len(s.Manifest) == 0 && len(s.Modules) == 0 {
		return nil, errors.New("no source configured: use --lib, --manifest, --modules, --pg-dsn or --s3-endpoint")
	}
	opts := []gofwmod.Option{gofwmod.WithLogger(logger)}
	var c catalogs

	libTypes, err := s.loadLib(ctx, logger)
	if err != nil {
		return nil, err
	}
	c.types = append(c.types, libTypes...)

	store, closeStore, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer closeStore()
		types, err := gofwmod.LoadModuleTypesFromStore(ctx, store, opts...)
		if err != nil {
			return nil, err
		}
		modules, err := gofwmod.LoadModulesFromStore(ctx, store, opts...)
		if err != nil {
			return nil, err
		}
		c.types = append(c.types, types...)
		c.modules = append(c.modules, modules...)
	}

	files, err := s.loadFiles(logger)
	if err != nil {
		return nil, err
	}
	c.types = append(c.types, files.types...)
	c.modules = append(c.modules, files.modules...)

	return &c, nil
}

func (f *FileFlags) loadLib(ctx context.Context, logger *slog.Logger) ([]gofwmod.ModuleType, error) {
	if f.Lib == "" {
		return nil, nil
	}
	return gofwmod.LoadModuleTypesFromLib(ctx, f.Lib, gofwmod.WithLogger(logger))
}

// loadFiles reads manifests and module files.
func (f *FileFlags) loadFiles(logger *slog.Logger) (*catalogs, error) {
	opts := []gofwmod.Option{gofwmod.WithLogger(logger)}
	var c catalogs
	for _, path := range f.Manifest {
		m, err := gofwmod.ParseManifestFile(path, opts...)
		if err != nil {
			return nil, err
		}
		for _, w := range m.Warnings {
			logger.Warn(w)
		}
		c.types = append(c.types, m.ModuleTypes...)
		c.modules = append(c.modules, m.Modules...)
	}
	for _, path := range f.Modules {
		logger.Info("parsing firmware modules file", "path", path)
		modules, err := gofwmod.LoadModulesFile(path)
		if err != nil {
			return nil, err
		}
		c.modules = append(c.modules, modules...)
	}
	return &c, nil
}

// open opens the configured document store. It returns a nil store when
// none is configured.
func (s *StoreFlags) open(ctx context.Context) (documentStore, func(), error) {
	switch {
	case s.PGDSN != "" && s.S3Endpoint != "":
		return nil, nil, errors.New("--pg-dsn and --s3-endpoint are mutually exclusive")
	case s.PGDSN != "":
		pg, err := docstore.NewPostgres(ctx, docstore.PostgresConfig{DSN: s.PGDSN, Table: s.PGTable})
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	case s.S3Endpoint != "":
		s3, err := docstore.NewS3(docstore.S3Config{
			Endpoint:  s.S3Endpoint,
			Region:    s.S3Region,
			AccessKey: s.S3AccessKey,
			SecretKey: s.S3SecretKey,
			Bucket:    s.S3Bucket,
			UseSSL:    s.S3SSL,
			Prefix:    s.S3Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3, func() {}, nil
	default:
		return nil, nil, nil
	}
}
