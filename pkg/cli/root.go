// Package cli wires the artwall commands: batch generation, single-file
// composition, folder watching and self-update.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/Fepozopo/artwall/pkg/config"
	"github.com/Fepozopo/artwall/pkg/logx"
)

// app carries the parsed flags and the streams of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	envFiles   []string
	verbose    bool
	debug      bool
	silent     bool
	logFile    string

	overrides overrides

	logger  *slog.Logger
	closeLg func() error
}

// NewRootCmd builds the command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	rootCmd := &cobra.Command{
		Use:              filepath.Base(os.Args[0]),
		Short:            "artwall turns artwork into desktop wallpapers",
		Long:             "artwall places each image as a shadowed thumbnail on a blurred, screen-filling copy of itself.",
		SilenceUsage:     true,
		SilenceErrors:    true,
		TraverseChildren: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLg != nil {
				return a.closeLg()
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, `config`, `c`, ``, `YAML config file`)
	pf.StringSliceVar(&a.envFiles, `env-file`, nil, `.env files to load (default .env)`)
	pf.BoolVarP(&a.verbose, `verbose`, `v`, false, `debug logging`)
	pf.BoolVarP(&a.debug, `debug`, `d`, false, `print error stacks`)
	pf.BoolVarP(&a.silent, `silent`, `s`, false, `silence errors`)
	pf.StringVarP(&a.logFile, `log-file`, `l`, ``, `log file`)
	a.overrides.register(rootCmd)

	rootCmd.AddCommand(
		a.generateCmd(),
		a.composeCmd(),
		a.watchCmd(),
		a.profilesCmd(),
		a.updateCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	cobra.EnablePrefixMatching = true
	rootCmd := NewRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// run reports a failing command on errOut, with the captured stack when
// --debug is set, and hands the error back to cobra for the exit code.
func (a *app) run(fn func() error) error {
	var err error
	if fn == nil {
		err = errors.New(`nil command func`)
	} else {
		err = fn()
	}
	if err == nil {
		return nil
	}
	err = errors.Wrap(err, 1)
	if a.logger != nil {
		logx.IsErr(err, logx.Prov(a.logger), slog.LevelError)
	}
	if !a.silent {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); a.debug && ok {
			fmt.Fprintln(a.errOut, "\n"+stackFramer.ErrorStack())
		} else {
			fmt.Fprintln(a.errOut, "Error: "+err.Error())
		}
	}
	return err
}

// setup loads the configuration, applies flag overrides and opens the logger.
func (a *app) setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.configFile, a.envFiles...)
	if err != nil {
		return nil, err
	}
	if err := a.overrides.apply(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if a.logger == nil {
		logger, closeFn, err := logx.New(a.verbose, a.logFile)
		if err != nil {
			return nil, err
		}
		a.logger, a.closeLg = logger, closeFn
	}
	logx.Debug("configuration loaded", a.loggerProv(), "profile", cfg.Profile, "workers", cfg.Workers)
	return cfg, nil
}

func (a *app) loggerProv() logx.LoggerProvider {
	if a.logger == nil {
		return logx.Discard()
	}
	return logx.Prov(a.logger)
}
