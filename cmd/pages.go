package main

import (
	"net/http"

	"declutteredWeb/internal/session"
)

func (app *application) homePage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "home.html", nil)
}

func (app *application) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	app.render(w, r, "login.html", nil)
}

// dashboardPage renders the overview server side so sellers see their
// numbers on first paint. A dead backend degrades to an empty shell
// the frontend retries over the API.
func (app *application) dashboardPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	td := &templateData{}
	overview, err := app.dashboardService.Overview(r.Context(), sess.Tokens.AccessToken, sess.Account.ID)
	if err != nil {
		app.errorLog.Printf("dashboard overview for %s: %v", sess.Account.ID, err)
	} else {
		td.Overview = &overview
	}
	app.render(w, r, "dashboard.html", td)
}

func (app *application) capturePage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "capture.html", app.wizardData(r))
}

func (app *application) selectionPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "selection.html", app.wizardData(r))
}

func (app *application) resultsPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "results.html", app.wizardData(r))
}

// wizardData exposes the session's flow position so a hard refresh
// drops the seller back on the screen they left.
func (app *application) wizardData(r *http.Request) *templateData {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return nil
	}
	return &templateData{Wizard: &sess.Wizard}
}
