package plugin

// Config is the Qt startup configuration as a value, for callers which would
// rather build it up and apply it in one place, or pass it to a child process.
type Config struct {
	// SearchPath lists plugin directories in priority order.
	SearchPath []string

	// LocalDeployment puts the running executable's directory first on the
	// search path.
	LocalDeployment bool

	// NoSignalHandlers disables Qt's QPA signal handlers.
	NoSignalHandlers bool
}

// Vars resolves the configuration into environment variable values. Variables
// the configuration does not set are omitted.
func (c Config) Vars() (map[string]string, error) {
	vars := map[string]string{}

	var paths []string
	if c.LocalDeployment {
		dir, err := executableDir()
		if err != nil {
			return nil, err
		}
		paths = append(paths, dir)
	}
	paths = append(paths, c.SearchPath...)

	if len(paths) != 0 {
		joined, err := JoinPaths(paths...)
		if err != nil {
			if c.LocalDeployment {
				return nil, &ResolutionError{Op: "set search path", Err: err}
			}
			return nil, err
		}
		vars[EnvPluginPath] = joined
	}
	if c.NoSignalHandlers {
		vars[EnvNoSignalHandler] = "1"
	}
	return vars, nil
}

// Environ returns the configuration as KEY=VALUE pairs, e.g. for
// exec.Cmd.Env. The process environment is not modified.
func (c Config) Environ() ([]string, error) {
	vars, err := c.Vars()
	if err != nil {
		return nil, err
	}
	var env []string
	for _, k := range []string{EnvPluginPath, EnvNoSignalHandler} {
		if v, ok := vars[k]; ok {
			env = append(env, k+"="+v)
		}
	}
	return env, nil
}

// Apply writes the configuration to the process environment. Nothing is
// written if the search path cannot be resolved.
//
// This must be called before QCoreApplication initialization to have any
// effect.
func (c Config) Apply() error {
	vars, err := c.Vars()
	if err != nil {
		return err
	}
	if v, ok := vars[EnvPluginPath]; ok {
		if err := setenv(EnvPluginPath, v); err != nil {
			return err
		}
	}
	if _, ok := vars[EnvNoSignalHandler]; ok {
		DisableQPASignalHandlers()
	}
	return nil
}
