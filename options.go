package gofwmod

import (
	"context"
	"errors"
	"log/slog"
)

// Option configures synthesis and loading behavior.
type Option func(*config) error

// config holds all library configuration.
type config struct {
	keepInstanceOnlyPorts bool
	descriptorNames       []string
	skipPrefix            string

	// logger is the structured logger for debug/info output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// DefaultDescriptorNames are the file names a library directory is searched
// for, in order. The first one present wins.
var DefaultDescriptorNames = []string{"module.json", "module.yaml", "module.yml"}

// WithInstanceOnlyPorts keeps inputs and outputs that a module names but its
// type does not declare. They get the same variable/category fallbacks as
// declared ports. Without this option such ports are dropped.
func WithInstanceOnlyPorts() Option {
	return func(c *config) error {
		c.keepInstanceOnlyPorts = true
		return nil
	}
}

// WithDescriptorNames overrides the descriptor file names searched for in
// each library subdirectory.
func WithDescriptorNames(names ...string) Option {
	return func(c *config) error {
		if len(names) == 0 {
			return errors.New("at least one descriptor name is required")
		}
		c.descriptorNames = append([]string(nil), names...)
		return nil
	}
}

// WithSkipPrefix sets the document id prefix that store loaders skip.
// Defaults to "_", which excludes design documents.
func WithSkipPrefix(prefix string) Option {
	return func(c *config) error {
		c.skipPrefix = prefix
		return nil
	}
}

// WithLogger sets a structured logger for loader diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "fwmod")
//	types, err := gofwmod.LoadModuleTypesFromLib(ctx, "lib", gofwmod.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newConfig applies the given options over the defaults.
func newConfig(opts ...Option) (*config, error) {
	c := &config{
		descriptorNames: DefaultDescriptorNames,
		skipPrefix:      "_",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
