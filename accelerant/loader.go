package accelerant

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"
	"slices"
)

// EntryPoint is the symbol a backend plugin exports. It is either a
// function of type func(Feature) any or a variable of type HookFunc.
const EntryPoint = "AccelerantHook"

// Loader finds backends by name. Builtin backends take precedence over
// plugins found on the search path.
type Loader struct {
	paths    []string
	builtins map[string]HookFunc
	log      *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSearchPath appends directories scanned for <name>.so plugins.
func WithSearchPath(dirs ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = append(l.paths, dirs...)
	}
}

// WithBuiltin registers an in-process backend under name.
func WithBuiltin(name string, hook HookFunc) LoaderOption {
	return func(l *Loader) {
		if hook != nil {
			l.builtins[name] = hook
		}
	}
}

// WithLoaderLogger sets the logger used while loading.
func WithLoaderLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		builtins: make(map[string]HookFunc),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Builtins returns the sorted names of registered in-process backends.
func (l *Loader) Builtins() []string {
	names := make([]string, 0, len(l.builtins))
	for name := range l.builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load returns the entry point of the backend called name.
func (l *Loader) Load(name string) (HookFunc, error) {
	if hook, ok := l.builtins[name]; ok {
		l.log.Debug("accelerant: using builtin backend", "name", name)
		return hook, nil
	}

	var errs []error
	for _, dir := range l.paths {
		path := filepath.Join(dir, name+".so")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		hook, err := openPlugin(path)
		if err != nil {
			l.log.Warn("accelerant: plugin rejected", "path", path, "err", err)
			errs = append(errs, err)
			continue
		}
		l.log.Info("accelerant: loaded plugin", "path", path)
		return hook, nil
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, errors.Join(errs...))
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func openPlugin(path string) (HookFunc, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("accelerant: open %s: %w", path, err)
	}
	sym, err := p.Lookup(EntryPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadEntryPoint, path, err)
	}
	return hookFromSymbol(sym)
}

// hookFromSymbol accepts the shapes a plugin may export.
func hookFromSymbol(sym any) (HookFunc, error) {
	switch v := sym.(type) {
	case func(Feature) any:
		return v, nil
	case HookFunc:
		return v, nil
	case *HookFunc:
		if v != nil && *v != nil {
			return *v, nil
		}
	case *func(Feature) any:
		if v != nil && *v != nil {
			return *v, nil
		}
	}
	return nil, fmt.Errorf("%w: symbol %s has type %T", ErrBadEntryPoint, EntryPoint, sym)
}
