package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS, typically an embedded tree.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".html" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds context values available to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders Django-syntax templates from a fixed source. Parsed
// templates are cached; rendering itself is stateless, so one engine can
// serve concurrent renders.
type Engine struct {
	mu sync.RWMutex

	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
	ext   string
}

// New constructs an Engine from the provided options. Either WithFS or
// WithBaseDir is required.
func New(opts ...Option) (*Engine, error) {
	cfg := &config{extension: ".html"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, ErrNoTemplateSource
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	e := &Engine{
		set:   pongo2.NewSet("apptkit", loaders...),
		cache: make(map[string]*pongo2.Template),
		ext:   cfg.extension,
	}

	if len(cfg.globals) > 0 {
		ctx, err := toContext(cfg.globals)
		if err != nil {
			return nil, fmt.Errorf("render: convert globals: %w", err)
		}
		if e.set.Globals == nil {
			e.set.Globals = make(pongo2.Context)
		}
		e.set.Globals.Update(ctx)
	}

	return e, nil
}

// Render executes the named template with the given data. The extension is
// appended when missing, so "appointment_email" and "appointment_email.html"
// address the same file.
func (e *Engine) Render(name string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", ErrEngineNotInitialized
	}

	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data, path)
}

// RenderString parses and executes inline template source. Parsed strings are
// not cached.
func (e *Engine) RenderString(src string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", ErrEngineNotInitialized
	}

	tmpl, err := e.set.FromString(src)
	if err != nil {
		return "", fmt.Errorf("render: parse template string: %w", err)
	}
	return execute(tmpl, data, "inline")
}

// RegisterFilter makes fn available to all templates under the given name.
// Filter registration is process-wide; registering an existing name fails.
func RegisterFilter(name string, fn func(in any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return ErrInvalidFilter
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("%w: %q", ErrFilterExists, name)
	}

	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		out, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", path, err)
	}

	e.cache[path] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, data any, name string) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("render: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("render: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

// toContext accepts maps as-is and lowers anything else through a JSON
// round-trip, so callers can hand over plain structs.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return pongo2.Context(out), nil
	}
}
