package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"declutteredWeb/ui"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	dynamicMiddleware := alice.New(app.loadSession)
	protectedMiddleware := dynamicMiddleware.Append(app.requireAuthentication)

	mux := pat.New()

	// Pages
	mux.Get("/", dynamicMiddleware.ThenFunc(app.homePage))
	mux.Get("/login", dynamicMiddleware.ThenFunc(app.loginPage))
	mux.Get("/dashboard", protectedMiddleware.ThenFunc(app.dashboardPage))
	mux.Get("/pipeline", protectedMiddleware.ThenFunc(app.capturePage))
	mux.Get("/pipeline/selection", protectedMiddleware.ThenFunc(app.selectionPage))
	mux.Get("/pipeline/results", protectedMiddleware.ThenFunc(app.resultsPage))

	// Auth
	mux.Post("/api/auth/sign_up", dynamicMiddleware.ThenFunc(app.authHandler.SignUp))
	mux.Post("/api/auth/sign_in", dynamicMiddleware.ThenFunc(app.authHandler.SignIn))
	mux.Post("/api/auth/sign_out", dynamicMiddleware.ThenFunc(app.authHandler.SignOut))
	mux.Get("/api/auth/user", protectedMiddleware.ThenFunc(app.authHandler.User))

	// Listings
	mux.Get("/api/listings", protectedMiddleware.ThenFunc(app.listingHandler.GetListings))
	mux.Post("/api/listings", protectedMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Put("/api/listings/:id/status", protectedMiddleware.ThenFunc(app.listingHandler.UpdateListingStatus))
	mux.Post("/api/listings/:id/video", protectedMiddleware.ThenFunc(app.listingHandler.AttachVideo))
	mux.Del("/api/listings/:id", protectedMiddleware.ThenFunc(app.listingHandler.DeleteListing))

	// Dashboard
	mux.Get("/api/dashboard", protectedMiddleware.ThenFunc(app.dashboardHandler.GetOverview))

	// Conversations
	mux.Get("/api/conversations", protectedMiddleware.ThenFunc(app.conversationHandler.GetConversations))
	mux.Get("/api/conversations/:id/messages", protectedMiddleware.ThenFunc(app.conversationHandler.GetMessages))
	mux.Post("/api/conversations/:id/messages", protectedMiddleware.ThenFunc(app.conversationHandler.SendMessage))
	mux.Post("/api/conversations/:id/draft", protectedMiddleware.ThenFunc(app.conversationHandler.GenerateDraft))

	// Detection jobs
	mux.Post("/api/pipeline/process", protectedMiddleware.ThenFunc(app.pipelineHandler.ProcessImage))
	mux.Post("/api/pipeline/create-listings", protectedMiddleware.ThenFunc(app.pipelineHandler.CreateListings))
	mux.Get("/api/pipeline/status/:job_id", protectedMiddleware.ThenFunc(app.pipelineHandler.GetJobStatus))
	mux.Get("/api/pipeline/jobs", protectedMiddleware.ThenFunc(app.pipelineHandler.GetJobs))
	mux.Post("/api/pipeline/clear-jobs", protectedMiddleware.ThenFunc(app.pipelineHandler.ClearJobs))
	mux.Get("/api/pipeline/cropped-images", protectedMiddleware.ThenFunc(app.pipelineHandler.GetCroppedImages))
	mux.Get("/api/pipeline/cropped-image/:filename", protectedMiddleware.ThenFunc(app.pipelineHandler.GetCroppedImage))

	// Declutter flow
	mux.Get("/api/declutter/state", protectedMiddleware.ThenFunc(app.declutterHandler.GetState))
	mux.Post("/api/declutter/advance", protectedMiddleware.ThenFunc(app.declutterHandler.CompleteCapture))
	mux.Post("/api/declutter/select", protectedMiddleware.ThenFunc(app.declutterHandler.SelectObjects))
	mux.Post("/api/declutter/items", protectedMiddleware.ThenFunc(app.declutterHandler.ConfirmItems))
	mux.Put("/api/declutter/drafts/:cropped_id", protectedMiddleware.ThenFunc(app.declutterHandler.EditDraft))
	mux.Post("/api/declutter/queue", protectedMiddleware.ThenFunc(app.declutterHandler.QueuePosts))
	mux.Post("/api/declutter/back", protectedMiddleware.ThenFunc(app.declutterHandler.Back))
	mux.Post("/api/declutter/reset", protectedMiddleware.ThenFunc(app.declutterHandler.Reset))

	// Assistant chat
	mux.Post("/api/chat/message", protectedMiddleware.ThenFunc(app.assistantHandler.SendMessage))
	mux.Post("/api/chat/generate-draft", protectedMiddleware.ThenFunc(app.assistantHandler.GenerateDraft))
	mux.Get("/ws/assistant", protectedMiddleware.ThenFunc(app.assistantWS))

	// Health
	mux.Get("/api/health", http.HandlerFunc(app.healthHandler.Health))
	mux.Get("/health", http.HandlerFunc(app.healthHandler.Health))

	fileServer := http.FileServer(http.FS(ui.Files))
	mux.Get("/static/", fileServer)

	return standardMiddleware.Then(mux)
}
