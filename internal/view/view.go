// Package view renders the server-side HTML pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aidejuridic/chatgate/backend/internal/model/chatui"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageLogin  = "login"
	PageSignup = "signup"
	PageChat   = "chat"
)

// LoginPage is the login form state.
type LoginPage struct {
	Email          string
	Error          string
	RedirectedFrom string
}

// SignupPage is the signup form state.
type SignupPage struct {
	Name              string
	Email             string
	Error             string
	Message           string
	MinPasswordLength int
}

// ChatPage mounts the chat widget.
type ChatPage struct {
	UserName  string
	UserEmail string
	Shell     chatui.ShellConfig
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page against the shared layout.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{PageLogin, PageSignup, PageChat} {
		tmpl, err := template.ParseFS(files, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		pages[page] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes page with data and status. The page is buffered so a
// template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
