package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the minimal HTML shell shared by every message.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</title></head><body style="font-family:sans-serif">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Welcome greets a newly registered user by email address.
func Welcome(email string) templ.Component {
	greeting := "Welcome " + email + "!"
	return Layout(greeting, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>"+templ.EscapeString(greeting)+"</h1>"+
			"<p>Your files manager account is ready. Upload your first file to get started.</p>")
		return err
	}))
}
