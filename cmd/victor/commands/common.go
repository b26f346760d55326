package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/victor/internal/build"
	"git.home.luguber.info/inful/victor/internal/foundation"
)

// Global carries state shared by all commands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI is the root command line.
type CLI struct {
	Root    string           `short:"C" help:"Project root directory" default:"." type:"path"`
	Config  string           `short:"c" help:"Configuration file, relative to the project root" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the site into the output directory (default command)"`
	Init  InitCmd  `cmd:"" help:"Create a new project in the project root"`
	New   NewCmd   `cmd:"" help:"Create a new content file from an archetype"`
	Serve ServeCmd `cmd:"" help:"Serve the built site for local preview"`
}

// AfterApply runs after flag parsing; logging is configured once here.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

var logLevels = foundation.NewNormalizer(map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

// parseLogLevel honours --verbose first, then VICTOR_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return logLevels.Normalize(os.Getenv("VICTOR_LOG_LEVEL"))
}

// pipelineOptions maps the global flags onto build options.
func (c *CLI) pipelineOptions() build.Options {
	return build.Options{Root: c.Root, ConfigPath: c.Config}
}
