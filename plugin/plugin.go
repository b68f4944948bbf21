package plugin

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Environment variables read by Qt at application initialization.
const (
	EnvPluginPath      = "QT_PLUGIN_PATH"
	EnvNoSignalHandler = "QT_QPA_NO_SIGNAL_HANDLER"
)

var (
	executable = os.Executable
	setenv     = os.Setenv
)

// JoinPaths joins paths into a platform path list, in order. It fails with an
// *InvalidPathError if a path cannot be represented in the list.
func JoinPaths(paths ...string) (string, error) {
	return joinPaths(paths)
}

// SetSearchPath sets the Qt plugin search path, replacing any previous value.
// If any path is invalid, the environment is left untouched.
//
// This must be called before QCoreApplication initialization to have any
// effect.
func SetSearchPath(paths ...string) error {
	joined, err := JoinPaths(paths...)
	if err != nil {
		return err
	}
	if err := setenv(EnvPluginPath, joined); err != nil {
		return err
	}
	slog.Debug("set qt plugin search path", "var", EnvPluginPath, "value", joined)
	return nil
}

// ConfigureLocalDeployment sets the Qt plugin search path to the directory
// containing the running executable, which is where a windeployqt-style
// deployment places the Qt plugins.
//
// This must be called before QCoreApplication initialization to have any
// effect.
func ConfigureLocalDeployment() error {
	dir, err := executableDir()
	if err != nil {
		return err
	}
	if err := SetSearchPath(dir); err != nil {
		return &ResolutionError{Op: "set search path", Err: err}
	}
	return nil
}

// DisableQPASignalHandlers stops Qt's platform integration from installing
// its own handlers for OS signals.
//
// This must be called before QCoreApplication initialization to have any
// effect.
func DisableQPASignalHandlers() {
	if err := setenv(EnvNoSignalHandler, "1"); err != nil {
		slog.Warn("could not disable qpa signal handlers", "var", EnvNoSignalHandler, "error", err)
		return
	}
	slog.Debug("disabled qpa signal handlers", "var", EnvNoSignalHandler)
}

func executableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", &ResolutionError{Op: "get executable path", Err: err}
	}
	dir := filepath.Dir(exe)
	if exe == "" || dir == exe || dir == "." {
		return "", &ResolutionError{Op: "get executable directory of " + exe}
	}
	return dir, nil
}
