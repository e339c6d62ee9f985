// Package templates renders the transactional emails from embedded files.
// Each email is a triple <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const VerifyEmail = "verify_email"

// EmailData is what the templates can reference.
type EmailData struct {
	Name        string
	Email       string
	AppName     string
	CompanyName string
	SupportURL  string

	VerifyURL     string
	ExpiresIn     string
	ExpiresAtText string
}

// Parsed once; a broken template fails at startup, not on the first registration.
var (
	textSet = texttpl.Must(texttpl.New("").ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").ParseFS(FS, "*.html.tmpl"))
)

func exec(name string, run func(*bytes.Buffer) error) (string, error) {
	var buf bytes.Buffer
	if err := run(&buf); err != nil {
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain text and HTML bodies of the named email.
func Render(name string, data any) (subject, text, html string, err error) {
	sub := name + ".subject.tmpl"
	if subject, err = exec(sub, func(b *bytes.Buffer) error { return textSet.ExecuteTemplate(b, sub, data) }); err != nil {
		return "", "", "", err
	}
	txt := name + ".text.tmpl"
	if text, err = exec(txt, func(b *bytes.Buffer) error { return textSet.ExecuteTemplate(b, txt, data) }); err != nil {
		return "", "", "", err
	}
	h := name + ".html.tmpl"
	if html, err = exec(h, func(b *bytes.Buffer) error { return htmlSet.ExecuteTemplate(b, h, data) }); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
