package main

import (
	"log"
	"time"

	"evalease-backend/internal/config"
	"evalease-backend/internal/database"
	"evalease-backend/internal/handlers"
	"evalease-backend/internal/middleware"
	"evalease-backend/internal/services"
	"evalease-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           EvalEase API
// @version         1.0
// @description     API for jury evaluation of competition teams across timed sessions
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	juryService := services.NewJuryService(db)
	teamService := services.NewTeamService(db)
	participantService := services.NewParticipantService(db)
	assignmentService := services.NewAssignmentService(db)
	bulkLockService := services.NewBulkLockService(db)
	lifecycleService := services.NewLifecycleService(db, assignmentService, bulkLockService)
	markingService := services.NewMarkingService(db, services.DefaultScoreBounds(cfg.MaxScore))
	lookupService := services.NewLookupService(db, time.Duration(cfg.LookupTTLSec)*time.Second)

	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(lifecycleService, assignmentService, hub)
	juryHandler := handlers.NewJuryHandler(juryService, assignmentService, lookupService)
	teamHandler := handlers.NewTeamHandler(teamService, assignmentService, lookupService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	markHandler := handlers.NewMarkHandler(markingService, bulkLockService, teamService, hub)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Jury-Token"},
		AllowCredentials: true,
	}))

	r.GET("/ws/session/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		sessions := api.Group("/sessions")
		sessions.Use(middleware.JWTAuth(authService))
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.POST("/:id/start", sessionHandler.StartSession)
			sessions.POST("/:id/end", sessionHandler.EndSession)
			sessions.PUT("/:id/draft", sessionHandler.SaveDraft)
			sessions.POST("/:id/publish", sessionHandler.PublishSession)
			sessions.GET("/:id/juries", sessionHandler.ListSessionJuries)
			sessions.GET("/:id/marks", markHandler.ListSessionMarks)
			sessions.POST("/:id/marks/lock", markHandler.LockSessionMarks)
		}

		juries := api.Group("/juries")
		juries.Use(middleware.JWTAuth(authService))
		{
			juries.GET("", juryHandler.ListJuries)
			juries.POST("", juryHandler.CreateJury)
			juries.GET("/:id", juryHandler.GetJury)
			juries.PUT("/:id", juryHandler.UpdateJury)
			juries.DELETE("/:id", juryHandler.DeleteJury)
			juries.POST("/:id/sessions/:session_id", juryHandler.AssignToSession)
			juries.DELETE("/:id/sessions/:session_id", juryHandler.RemoveFromSession)
		}

		teams := api.Group("/teams")
		teams.Use(middleware.JWTAuth(authService))
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.POST("/distribute", teamHandler.Distribute)
			teams.POST("/reassign", teamHandler.Reassign)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.POST("/:id/members", teamHandler.AddMember)
			teams.DELETE("/:id/members/:participant_id", teamHandler.RemoveMember)
		}

		participants := api.Group("/participants")
		participants.Use(middleware.JWTAuth(authService))
		{
			participants.GET("", participantHandler.ListParticipants)
			participants.POST("", participantHandler.CreateParticipant)
			participants.GET("/:id", participantHandler.GetParticipant)
			participants.PUT("/:id", participantHandler.UpdateParticipant)
			participants.DELETE("/:id", participantHandler.DeleteParticipant)
		}

		lookups := api.Group("/lookups")
		lookups.Use(middleware.JWTAuth(authService))
		{
			lookups.GET("/juries", juryHandler.JuryOptions)
			lookups.GET("/teams", teamHandler.TeamOptions)
		}

		marks := api.Group("/marks")
		{
			marks.GET("/:id", middleware.JWTAuth(authService), markHandler.GetMarkByID)
			marks.POST("/:id/lock", middleware.JWTAuth(authService), markHandler.LockMark)

			marks.GET("", middleware.JuryAuth(juryService), markHandler.GetMark)
			marks.POST("", middleware.JuryAuth(juryService), markHandler.SubmitMark)
			marks.PUT("/:id", middleware.JuryAuth(juryService), markHandler.UpdateMark)
			marks.POST("/submit-all", middleware.JuryAuth(juryService), markHandler.SubmitAllMarks)
			marks.GET("/my-teams", middleware.JuryAuth(juryService), markHandler.MyTeams)
		}
	}

	log.Printf("server listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
