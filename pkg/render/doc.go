// Package render wraps the pongo2 template engine behind a small, cached
// renderer for the Django-syntax HTML templates this module ships.
//
// Templates use `{{ path.to.field }}` placeholders plus the usual Django
// filters and tags. Values are HTML-escaped on output unless a template marks
// them safe. Rendering is deterministic: the same template and data always
// produce the same string.
//
// # Usage
//
//	engine, err := render.New(render.WithFS(templatesFS))
//	if err != nil {
//		return err
//	}
//	html, err := engine.Render("appointment_email", map[string]any{
//		"patient": map[string]any{"name": "Jane Doe"},
//	})
//
// Named templates are parsed once and cached; one engine serves concurrent
// renders. Custom filters can be added process-wide with RegisterFilter.
package render
