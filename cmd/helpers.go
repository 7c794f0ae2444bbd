package main

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"declutteredWeb/internal/session"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) render(w http.ResponseWriter, r *http.Request, name string, td *templateData) {
	ts, ok := app.templateCache[name]
	if !ok {
		app.serverError(w, fmt.Errorf("the template %s does not exist", name))
		return
	}

	// Render into a buffer first so a half written page never reaches
	// the browser when a template blows up.
	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", app.addDefaultData(td, r)); err != nil {
		app.serverError(w, err)
		return
	}
	buf.WriteTo(w)
}

func (app *application) addDefaultData(td *templateData, r *http.Request) *templateData {
	if td == nil {
		td = &templateData{}
	}
	td.CurrentYear = time.Now().Year()

	sess, ok := session.FromContext(r.Context())
	if ok {
		td.IsAuthenticated = true
		td.Account = sess.Account
		if td.Flash = sess.PopFlash(); td.Flash != "" {
			if err := app.sessions.Update(r.Context(), sess); err != nil {
				app.errorLog.Printf("clear flash: %v", err)
			}
		}
	}
	return td
}
