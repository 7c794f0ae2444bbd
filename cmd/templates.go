package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"time"

	"declutteredWeb/internal/models"
	"declutteredWeb/ui"
)

type templateData struct {
	CurrentYear     int
	Flash           string
	IsAuthenticated bool
	Account         models.Account
	Overview        *models.DashboardOverview
	Wizard          *models.WizardState
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 at 15:04")
}

// money formats prices. Optional prices arrive as pointers, so both
// shapes are accepted.
func money(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("$%.2f", n)
	case *float64:
		if n == nil {
			return ""
		}
		return fmt.Sprintf("$%.2f", *n)
	}
	return ""
}

var functions = template.FuncMap{
	"humanDate": humanDate,
	"money":     money,
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		patterns := []string{
			"html/base.html",
			"html/partials/*.html",
			page,
		}

		ts, err := template.New(name).Funcs(functions).ParseFS(ui.Files, patterns...)
		if err != nil {
			return nil, err
		}
		cache[name] = ts
	}
	return cache, nil
}
