// Command fwmod loads firmware module catalogs and prints synthesized module
// metadata.
//
// Usage:
//
//	fwmod synthesize --lib ./lib --modules modules.json
//	fwmod synthesize --manifest firmware.star --per-module
//	fwmod synthesize --pg-dsn postgres://localhost/registry
//	fwmod check --lib ./lib --modules modules.yaml
//	fwmod import --lib ./lib --modules modules.json --s3-endpoint localhost:9000
//	fwmod dirname https://github.com/OpenAgInitiative/openag_am2315.git
//	fwmod db-config --api-url http://localhost:5000
//
// Flags may also be set through FWMOD_* environment variables, which are read
// from a .env file in the working directory when present.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// App carries process-wide dependencies into subcommands.
type App struct {
	Ctx    context.Context
	Logger *slog.Logger
	Out    io.Writer
}

// CLI is the root command.
type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v" env:"FWMOD_VERBOSE"`

	Synthesize SynthesizeCmd `cmd:"" help:"Resolve modules against their types and print the result as JSON."`
	Check      CheckCmd      `cmd:"" help:"Check that every module references a known module type."`
	Import     ImportCmd     `cmd:"" help:"Write module types and modules from local files into a document store."`
	Dirname    DirnameCmd    `cmd:"" help:"Print the directory name a repository URL clones into."`
	DBConfig   DBConfigCmd   `cmd:"db-config" help:"Print the document database server configuration."`
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("fwmod"),
		kong.Description("Firmware module registry tooling"),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := kctx.Run(&App{
		Ctx:    ctx,
		Logger: newLogger(os.Stderr, cli.Verbose),
		Out:    os.Stdout,
	})
	kctx.FatalIfErrorf(err)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
