package qrc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
)

// Registry mirrors Qt's global resource registry on the Go side, so resources
// registered with RegisterResourceData can be read without going through Qt.
// The zero value is an empty registry. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	bundles []Bundle
	readers []*Reader // parallel to bundles, opened lazily
}

// DefaultRegistry is the registry RegisterResourceData records into.
var DefaultRegistry = &Registry{}

// Register adds a bundle to the registry. Nothing is parsed or validated
// until the first lookup. Registering the same buffers again is a no-op, as
// it is for qRegisterResourceData.
func (r *Registry) Register(b Bundle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.bundles {
		if v.same(b) {
			log().Debug("resource bundle already registered", "version", b.Version)
			return
		}
	}
	r.bundles = append(r.bundles, b)
	r.readers = append(r.readers, nil)
	log().Debug("registered resource bundle",
		"version", b.Version,
		"tree", len(b.Tree),
		"names", len(b.Names),
		"payload", len(b.Payload))
}

// Bundles returns the registered bundles in registration order.
func (r *Registry) Bundles() []Bundle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Bundle(nil), r.bundles...)
}

// Stat resolves a resource path. Qt-style ":/a/b" and "qrc:/a/b" paths are
// accepted along with plain "/a/b" and "a/b". Bundles are searched in
// registration order and the first match wins. A bundle that fails to parse
// is skipped, and its error is returned only if no other bundle matches.
func (r *Registry) Stat(name string) (*ReaderEntry, error) {
	p := cleanResourcePath(name)

	n := r.count()
	var errs []error
	for i := 0; i < n; i++ {
		rd, err := r.reader(i)
		if err != nil {
			errs = append(errs, fmt.Errorf("bundle %d: %w", i, err))
			continue
		}
		e, err := rd.Lookup(p)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("bundle %d: %w", i, err))
		}
	}
	if len(errs) != 0 {
		return nil, fmt.Errorf("stat resource %q: %w", name, errors.Join(errs...))
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// Open opens a registered resource file for reading.
func (r *Registry) Open(name string) (io.ReadCloser, error) {
	e, err := r.Stat(name)
	if err != nil {
		return nil, err
	}
	if e.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("is a directory")}
	}
	rc, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("open resource %q: %w", name, err)
	}
	return rc, nil
}

// ReadFile reads the full, decompressed contents of a registered resource.
func (r *Registry) ReadFile(name string) ([]byte, error) {
	rc, err := r.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read resource %q: %w", name, err)
	}
	return buf, nil
}

func (r *Registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bundles)
}

func (r *Registry) reader(i int) (*Reader, error) {
	r.mu.RLock()
	rd, b := r.readers[i], r.bundles[i]
	r.mu.RUnlock()
	if rd != nil {
		return rd, nil
	}

	rd, err := b.Reader()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.readers[i] = rd
	r.mu.Unlock()
	return rd, nil
}

// Stat looks up a resource in DefaultRegistry.
func Stat(name string) (*ReaderEntry, error) {
	return DefaultRegistry.Stat(name)
}

// Open opens a resource from DefaultRegistry.
func Open(name string) (io.ReadCloser, error) {
	return DefaultRegistry.Open(name)
}

// ReadFile reads a resource from DefaultRegistry.
func ReadFile(name string) ([]byte, error) {
	return DefaultRegistry.ReadFile(name)
}

func cleanResourcePath(name string) string {
	switch {
	case strings.HasPrefix(name, "qrc:"):
		name = name[len("qrc:"):]
	case strings.HasPrefix(name, ":"):
		name = name[1:]
	}
	return strings.Trim(name, "/")
}
