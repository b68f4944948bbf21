// Command qtenv launches a Qt application with its plugin search path and
// signal handling configured through the environment.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/qtgo/qrc/plugin"
	"github.com/spf13/pflag"
)

func main() {
	var cfg plugin.Config
	var printEnv, verbose, help bool

	pflag.CommandLine.SortFlags = false
	pflag.StringArrayVarP(&cfg.SearchPath, "plugin-path", "p", nil, "Add a Qt plugin directory (can be specified multiple times, in priority order)")
	pflag.BoolVarP(&cfg.LocalDeployment, "local", "l", false, "Search the directory containing qtenv first (for a windeployqt-style deployment)")
	pflag.BoolVarP(&cfg.NoSignalHandlers, "no-signal-handlers", "n", false, "Disable the Qt QPA signal handlers")
	pflag.BoolVar(&printEnv, "print", false, "Print the environment instead of running a command")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log the environment being set")
	pflag.BoolVarP(&help, "help", "h", false, "Show this help text")
	pflag.Parse()

	if help || (!printEnv && pflag.NArg() == 0) {
		fmt.Fprintf(os.Stderr, ""+
			"Usage: %s [options] [--] command [args...]\n"+
			"       %s [options] --print\n"+
			"\nOptions:\n"+
			"%s"+
			"\nEnvironment:\n"+
			"  %s is set to the plugin directories joined with the platform path list separator.\n"+
			"  %s is set to 1 if signal handlers are disabled. Other variables are passed through.\n",
			os.Args[0], os.Args[0], pflag.CommandLine.FlagUsages(), plugin.EnvPluginPath, plugin.EnvNoSignalHandler,
		)
		if help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	env, err := cfg.Environ()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
		os.Exit(2)
	}
	for _, kv := range env {
		log.Debug("setting environment", "var", kv)
	}

	if printEnv {
		if err := Print(os.Stdout, env); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
			os.Exit(1)
		}
		return
	}

	code, err := Run(env, pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

// Print writes the variables one per line.
func Print(w io.Writer, env []string) error {
	for _, kv := range env {
		if _, err := fmt.Fprintln(w, kv); err != nil {
			return err
		}
	}
	return nil
}

// Run runs argv with the current environment plus env, and returns its exit
// code. Variables in env override inherited ones. A child killed by a signal
// is reported as 128+signal, as shells do.
func Run(env []string, argv []string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return exitCode(ee.ProcessState), nil
		}
		return 0, fmt.Errorf("run %q: %w", argv[0], err)
	}
	return 0, nil
}

func exitCode(ps *os.ProcessState) int {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}
