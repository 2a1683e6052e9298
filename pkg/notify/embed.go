package notify

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// EmailTemplate is the name of the appointment status email template within
// TemplatesFS.
const EmailTemplate = "appointment-email"

// TemplatesFS exposes the embedded email templates, rooted at the templates
// directory so names resolve without a path prefix.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
