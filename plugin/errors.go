package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath matches errors for paths which cannot be part of a
	// joined path list.
	ErrInvalidPath = errors.New("invalid path in path list")

	// ErrResolution matches errors for a failure to locate the running
	// executable's directory.
	ErrResolution = errors.New("cannot resolve executable directory")
)

// InvalidPathError is returned when a path contains a character which cannot
// be represented in a platform path list.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// ResolutionError is returned by ConfigureLocalDeployment.
type ResolutionError struct {
	Op  string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return "configure local deployment: " + e.Op
	}
	return "configure local deployment: " + e.Op + ": " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}
