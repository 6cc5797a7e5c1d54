package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/heshanpadmasiri/csvb/diagnostics"
)

var version = "dev"

func main() {
	diagnostics.Fatal("csvb", newRootCommand().Execute())
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "csvb",
		Short:         "Convert C# sources to Visual Basic",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConvertCommand())
	return root
}

// convertFlags are the command line overrides for config values.
type convertFlags struct {
	configDir string
	out       string
	diff      bool
	werror    bool
	jobs      int
	include   []string
	exclude   []string
	logLevel  string
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert files or directories of C# sources",
		Long: `Convert C# files to Visual Basic.

Directories are searched for files matching the include globs and not
matching the exclude globs. Converted sources go to stdout unless --out
names a directory. Constructs that cannot be converted are kept as
commented placeholders and reported as diagnostics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(flags.configDir)
			flags.apply(cmd, &cfg)
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			if len(args) == 0 {
				args = []string{"."}
			}
			r := &runner{
				cfg:    cfg,
				log:    logger,
				out:    flags.out,
				diff:   flags.diff,
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
			}
			return r.run(cmd.Context(), args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.configDir, "config-dir", ".", "directory holding Config.toml and .env")
	f.StringVarP(&flags.out, "out", "o", "", "directory to write converted files to")
	f.BoolVar(&flags.diff, "diff", false, "show a unified diff against existing .vb files instead of writing")
	f.BoolVar(&flags.werror, "werror", false, "stop at the first construct that cannot be converted")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "files converted in parallel (default: number of CPUs)")
	f.StringSliceVar(&flags.include, "include", nil, "glob of files to convert inside directories")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "glob of files to skip inside directories")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

// apply overrides config values with the flags given on the command line.
func (flags *convertFlags) apply(cmd *cobra.Command, cfg *config) {
	changed := cmd.Flags().Changed
	if changed("werror") {
		cfg.Strict = flags.werror
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("include") {
		cfg.Include = flags.include
	}
	if changed("exclude") {
		cfg.Exclude = flags.exclude
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(parseLogLevel(level))
	cfgZap.Encoding = "console"
	cfgZap.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfgZap.OutputPaths = []string{"stderr"}
	cfgZap.DisableStacktrace = true
	return cfgZap.Build()
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
