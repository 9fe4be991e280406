package routes

import (
	"github.com/Dosada05/club-tournaments/handlers"
	"github.com/Dosada05/club-tournaments/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/club-tournaments/docs"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Club        *handlers.ClubHandler
	Team        *handlers.TeamHandler
	Tournament  *handlers.TournamentHandler
	Participant *handlers.ParticipantHandler
	Application *handlers.ApplicationHandler
	WebSocket   *handlers.WebSocketHandler
	Health      *handlers.HealthHandler
}

func SetupRoutes(router chi.Router, h Handlers, jwtSecret string, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Get("/healthz", h.Health.Health)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/users/me", h.User.GetMe)

			r.Post("/clubs", h.Club.CreateClub)
			r.Put("/clubs/{clubID}/memberships/{userID}", h.Club.SetMembership)

			r.Post("/teams", h.Team.CreateTeam)
			r.Get("/teams/{teamID}", h.Team.GetTeam)

			r.Route("/tournaments", func(r chi.Router) {
				r.Post("/", h.Tournament.CreateHandler)
				r.Get("/", h.Tournament.ListHandler)

				r.Route("/{tournamentID}", func(r chi.Router) {
					r.Get("/", h.Tournament.GetByIDHandler)
					r.Get("/participants", h.Tournament.ListParticipantsHandler)
					r.Get("/activities", h.Tournament.ListActivitiesHandler)
					r.Patch("/status", h.Tournament.UpdateStatusHandler)
					r.Put("/logo", h.Tournament.UploadLogoHandler)
					r.Post("/registrations", h.Participant.RegisterIndividual)
					r.Post("/team-registrations", h.Participant.RegisterTeam)
				})
			})

			r.Post("/events", h.Application.CreateEvent)
			r.Get("/events/{eventID}/applications", h.Application.ListEventApplications)
			r.Post("/applications", h.Application.CreateApplication)
			r.Post("/applications/{applicationID}/approve", h.Application.Approve)
		})

		r.With(middleware.AuthenticateWebSocket(jwtSecret)).
			Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
	})
}
