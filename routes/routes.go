package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/pong-ledger/docs" // регистрирует swagger спецификацию
	"github.com/Dosada05/pong-ledger/handlers"
	"github.com/Dosada05/pong-ledger/middleware"
	"github.com/Dosada05/pong-ledger/services"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	resolver services.IdentityResolver,
	userHandler *handlers.UserHandler,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	statsHandler *handlers.StatsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !containsWildcard(allowedOrigins),
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(resolver)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournament", webSocketHandler.ServeTournament)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Route("/tournament", func(r chi.Router) {
			r.Get("/current", tournamentHandler.GetCurrent)
			r.Post("/create", tournamentHandler.Create)
			r.Post("/register-guest", tournamentHandler.RegisterGuest)
			r.Post("/update-match", tournamentHandler.UpdateMatch)
			r.Post("/reset", tournamentHandler.Reset)
			r.With(authenticate).Post("/register", tournamentHandler.Register)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", userHandler.GetUserByID)
			r.Get("/stats", statsHandler.GetUserStats)
			r.Get("/history", statsHandler.GetUserHistory)
			r.Get("/profile", statsHandler.GetUserProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/me", userHandler.GetMe)
			r.Get("/me/stats", statsHandler.GetMyStats)
			r.Get("/me/history", statsHandler.GetMyHistory)

			r.Post("/games", matchHandler.CreateGame)
			r.Post("/games/ai", matchHandler.CreateAIGame)
			r.Post("/games/pvp", matchHandler.CreatePvPGame)
			r.Get("/games/{gameID}/outcome", matchHandler.GetGameOutcome)

			r.Post("/matches", matchHandler.RecordResult)
			r.Get("/matches/{matchID}", matchHandler.GetMatch)
		})
	})
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
