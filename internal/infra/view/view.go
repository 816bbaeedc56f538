// Package view renders the console pages from embedded html/template files.
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages lists every renderable page.
var Pages = []string{
	"signin", "signup", "dashboard", "contacts", "contact_edit", "prospects", "profile", "error",
}

type langKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext defaults to French.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLang
}

// Page is what every template receives.
type Page struct {
	Title     string
	Nav       string
	User      *entity.User
	Flash     string
	FlashKind string
	Data      any
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout with every page.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New("layout.html").
			Funcs(Funcs(i18n.DefaultLang)).
			ParseFS(templateFS, "templates/layout.html", "templates/partials.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with status. Nothing is written when the
// template fails.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, page Page) error {
	base, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	lang := LangFromContext(req.Context())
	t.Funcs(Funcs(lang))

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", map[string]any{"Page": page, "Lang": lang}); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Funcs is the template function map for lang.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":           func(code string) string { return i18n.T(lang, code) },
		"tf":          func(code string, args ...any) string { return i18n.Tf(lang, code, args...) },
		"lang":        func() string { return lang },
		"year":        func() int { return time.Now().Year() },
		"formatDate":  entity.FormatDate,
		"statusTone":  func(s string) string { return string(entity.StatusTone(s)) },
		"statusLabel": entity.StatusLabel,
		"mailto":      Mailto,
		"tel":         Tel,
		"externalURL": ExternalURL,
		"percent":     func(v float64) string { return fmt.Sprintf("%.1f %%", v) },
		"barWidth":    BarWidth,
		"dict":        dict,
	}
}

// Mailto builds the outreach link of a prospect: primary address with the
// generated subject and body.
func Mailto(c entity.Contact) template.URL {
	to := c.PrimaryEmail()
	if to == "" {
		return ""
	}
	q := make([]string, 0, 2)
	if c.GeneratedSubject != "" {
		q = append(q, "subject="+mailtoEscape(c.GeneratedSubject))
	}
	if c.GeneratedBody != "" {
		q = append(q, "body="+mailtoEscape(c.GeneratedBody))
	}
	link := "mailto:" + url.PathEscape(to)
	if len(q) > 0 {
		link += "?" + strings.Join(q, "&")
	}
	return template.URL(link)
}

// mailtoEscape percent-encodes a header value with spaces as %20.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Tel builds a tel: link keeping only dialable characters.
func Tel(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return template.URL("tel:" + b.String())
}

// ExternalURL adds a scheme to bare host names. The result still goes
// through html/template URL filtering.
func ExternalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// BarWidth is value as a percentage of peak, for proportional bars.
func BarWidth(value, peak int) int {
	if peak <= 0 || value <= 0 {
		return 0
	}
	w := value * 100 / peak
	if w < 1 {
		w = 1
	}
	return w
}

func dict(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		m[key] = values[i+1]
	}
	return m
}
