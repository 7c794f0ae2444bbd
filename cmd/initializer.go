package main

import (
	"html/template"
	"log"

	"github.com/redis/go-redis/v9"

	"declutteredWeb/internal/assistant"
	"declutteredWeb/internal/config"
	"declutteredWeb/internal/handlers"
	"declutteredWeb/internal/pipeline"
	"declutteredWeb/internal/repositories"
	"declutteredWeb/internal/services"
	"declutteredWeb/internal/session"
	"declutteredWeb/internal/supabase"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	templateCache map[string]*template.Template
	sessions      *session.Manager

	pipelineClient *pipeline.Client
	tokenVerifier  *supabase.TokenVerifier
	tracker        *services.JobTracker
	hub            *assistantHub

	authService      *services.AuthService
	dashboardService *services.DashboardService
	assistantService *services.AssistantService

	authHandler         *handlers.AuthHandler
	listingHandler      *handlers.ListingHandler
	dashboardHandler    *handlers.DashboardHandler
	conversationHandler *handlers.ConversationHandler
	pipelineHandler     *handlers.PipelineHandler
	declutterHandler    *handlers.DeclutterHandler
	assistantHandler    *handlers.AssistantHandler
	healthHandler       *handlers.HealthHandler
}

func initializeApp(cfg config.Config, rdb *redis.Client, templateCache map[string]*template.Template, errorLog, infoLog *log.Logger) *application {
	// Clients
	supabaseClient := supabase.NewClient(supabase.ClientOpts{
		BaseURL: cfg.Supabase.URL,
		AnonKey: cfg.Supabase.AnonKey,
	})
	storage := supabase.NewStorage(supabase.StorageOpts{
		ProjectURL: cfg.Supabase.URL,
		Endpoint:   cfg.Supabase.StorageEndpoint,
		Region:     cfg.Supabase.StorageRegion,
		AccessKey:  cfg.Supabase.StorageAccess,
		SecretKey:  cfg.Supabase.StorageSecret,
	})
	pipelineClient := pipeline.NewClient(pipeline.ClientOpts{BaseURL: cfg.Pipeline.BaseURL})
	assistantClient := assistant.NewClient(assistant.ClientOpts{BaseURL: cfg.Assistant.BaseURL})

	var tokenVerifier *supabase.TokenVerifier
	if cfg.Supabase.JWTSecret != "" {
		tokenVerifier = supabase.NewTokenVerifier(cfg.Supabase.JWTSecret)
	}

	// Repositories
	listingRepo := repositories.ListingRepository{Client: supabaseClient}
	conversationRepo := repositories.ConversationRepository{Client: supabaseClient}
	messageRepo := repositories.MessageRepository{Client: supabaseClient}

	// Job tracking
	poller := pipeline.NewPoller(pipelineClient, cfg.Pipeline.PollInterval)
	snapshotStore := &services.RedisSnapshotStore{Client: rdb}
	tracker := services.NewJobTracker(poller, snapshotStore, infoLog, errorLog)

	// Services
	authService := services.AuthService{Supabase: supabaseClient}
	uploadService := services.UploadService{
		Storage:       storage,
		UploadsBucket: cfg.Supabase.Buckets.Uploads,
		CroppedBucket: cfg.Supabase.Buckets.Cropped,
		VideoBucket:   cfg.Supabase.Buckets.Video,
	}
	listingService := services.ListingService{
		ListingRepo: &listingRepo,
		Uploads:     &uploadService,
	}
	conversationService := services.ConversationService{
		ConversationRepo: &conversationRepo,
		MessageRepo:      &messageRepo,
		Assistant:        assistantClient,
	}
	dashboardService := services.DashboardService{
		Listings:      &listingService,
		Conversations: &conversationService,
	}
	declutterService := services.DeclutterService{
		Pipeline: pipelineClient,
		Uploads:  &uploadService,
		Listings: &listingService,
		Tracker:  tracker,
		ErrorLog: errorLog,
	}
	assistantService := services.AssistantService{
		Client:   assistantClient,
		Listings: &listingService,
	}

	// Sessions
	sessions := session.NewManager(session.ManagerOpts{
		Store:      session.NewRedisStore(rdb),
		Passphrase: cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	// Handlers
	authHandler := handlers.AuthHandler{Auth: &authService, Sessions: sessions}
	listingHandler := handlers.ListingHandler{Listings: &listingService}
	dashboardHandler := handlers.DashboardHandler{Dashboard: &dashboardService}
	conversationHandler := handlers.ConversationHandler{Conversations: &conversationService}
	pipelineHandler := handlers.PipelineHandler{
		Declutter: &declutterService,
		Pipeline:  pipelineClient,
		Sessions:  sessions,
	}
	declutterHandler := handlers.DeclutterHandler{Declutter: &declutterService, Sessions: sessions}
	assistantHandler := handlers.AssistantHandler{Assistant: &assistantService}
	healthHandler := handlers.HealthHandler{Pipeline: pipelineClient}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		templateCache:       templateCache,
		sessions:            sessions,
		pipelineClient:      pipelineClient,
		tokenVerifier:       tokenVerifier,
		tracker:             tracker,
		hub:                 newAssistantHub(&assistantService, infoLog, errorLog),
		authService:         &authService,
		dashboardService:    &dashboardService,
		assistantService:    &assistantService,
		authHandler:         &authHandler,
		listingHandler:      &listingHandler,
		dashboardHandler:    &dashboardHandler,
		conversationHandler: &conversationHandler,
		pipelineHandler:     &pipelineHandler,
		declutterHandler:    &declutterHandler,
		assistantHandler:    &assistantHandler,
		healthHandler:       &healthHandler,
	}
}
