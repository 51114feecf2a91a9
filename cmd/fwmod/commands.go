package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gofwmod "github.com/albertocavalcante/go-fwmod"
	"github.com/albertocavalcante/go-fwmod/dbconfig"
)

// SynthesizeCmd resolves every module and prints the results.
type SynthesizeCmd struct {
	SourceFlags `embed:""`

	KeepInstancePorts bool `help:"Keep ports declared only on a module instance." env:"FWMOD_KEEP_INSTANCE_PORTS"`
	PerModule         bool `help:"Resolve each module independently and report failures instead of aborting."`
}

func (c *SynthesizeCmd) Run(app *App) error {
	cats, err := c.load(app.Ctx, app.Logger)
	if err != nil {
		return err
	}
	var opts []gofwmod.Option
	if c.KeepInstancePorts {
		opts = append(opts, gofwmod.WithInstanceOnlyPorts())
	}

	if !c.PerModule {
		resolved, err := gofwmod.SynthesizeAll(cats.modules, cats.types, opts...)
		if err != nil {
			return err
		}
		return writeJSON(app.Out, resolved)
	}

	types := gofwmod.NewTypeCatalog(cats.types)
	modules := gofwmod.NewModuleCatalog(cats.modules)
	resolved := make(map[string]gofwmod.ResolvedModule, len(modules))
	var failed int
	for _, id := range modules.IDs() {
		r, err := gofwmod.SynthesizeModule(id, modules[id], types, opts...)
		if err != nil {
			app.Logger.Error("synthesize failed", "module", id, "error", err)
			failed++
			continue
		}
		resolved[id] = r
	}
	if err := writeJSON(app.Out, resolved); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d modules failed", failed, len(modules))
	}
	return nil
}

// CheckCmd validates module references and argument counts without printing
// resolved modules.
type CheckCmd struct {
	SourceFlags `embed:""`
}

func (c *CheckCmd) Run(app *App) error {
	cats, err := c.load(app.Ctx, app.Logger)
	if err != nil {
		return err
	}
	types := gofwmod.NewTypeCatalog(cats.types)
	modules := gofwmod.NewModuleCatalog(cats.modules)

	var errs []error
	if err := gofwmod.CheckReferences(modules, types); err != nil {
		errs = append(errs, err)
	}
	for _, id := range modules.IDs() {
		mod := modules[id]
		if _, ok := types.Lookup(mod.Type); !ok {
			continue
		}
		if _, err := gofwmod.SynthesizeModule(id, mod, types); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	fmt.Fprintf(app.Out, "ok: %d modules, %d module types\n", len(modules), len(types))
	return nil
}

// ImportCmd writes local catalogs into a document store.
type ImportCmd struct {
	FileFlags  `embed:""`
	StoreFlags `embed:""`
}

func (c *ImportCmd) Run(app *App) error {
	if c.PGDSN == "" && c.S3Endpoint == "" {
		return errors.New("import needs a target store: use --pg-dsn or --s3-endpoint")
	}
	types, err := c.loadLib(app.Ctx, app.Logger)
	if err != nil {
		return err
	}
	files, err := c.loadFiles(app.Logger)
	if err != nil {
		return err
	}
	types = append(types, files.types...)

	store, closeStore, err := c.open(app.Ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []gofwmod.Option{gofwmod.WithLogger(app.Logger)}
	if err := gofwmod.SaveModuleTypes(app.Ctx, store, types, opts...); err != nil {
		return err
	}
	if err := gofwmod.SaveModules(app.Ctx, store, files.modules, opts...); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "imported %d module types, %d modules\n",
		len(gofwmod.NewTypeCatalog(types)), len(gofwmod.NewModuleCatalog(files.modules)))
	return nil
}

// DirnameCmd prints the directory a repository URL clones into.
type DirnameCmd struct {
	URL string `arg:"" help:"Repository URL."`
}

func (c *DirnameCmd) Run(app *App) error {
	name, err := gofwmod.DirNameFromURL(c.URL)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, name)
	return nil
}

// DBConfigCmd prints the document database server configuration.
type DBConfigCmd struct {
	APIURL string `name:"api-url" help:"API server proxied under /_openag." env:"FWMOD_API_URL"`
	Flat   bool   `help:"Print one section/key=value line per setting."`
}

func (c *DBConfigCmd) Run(app *App) error {
	cfg := dbconfig.Generate(c.APIURL)
	if !c.Flat {
		return writeJSON(app.Out, cfg)
	}
	for _, s := range cfg.Settings() {
		fmt.Fprintf(app.Out, "%s/%s=%s\n", s.Section, s.Key, s.Value)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
