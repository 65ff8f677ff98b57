package routes

import (
	"gabber/annotator/internal/api"
	"gabber/annotator/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all /api routes and handlers.
// Trailing slashes are stripped by the router, so patterns are written without them.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, limiter *middleware.RateLimiter) {
	r.Route("/api", func(v chi.Router) {
		v.Use(middleware.AuthMiddleware(deps.Services.Identity)) // attaches the caller when a bearer token is sent
		v.Use(middleware.RequestLogger)

		// Credential endpoints are rate limited per IP
		v.Group(func(limited chi.Router) {
			limited.Use(limiter.Middleware)

			limited.Post("/auth/register", handlers.Register())
			limited.Post("/auth/login", handlers.Login())
			limited.Post("/auth/refresh", handlers.Refresh())
			limited.Post("/auth/forgot", handlers.ForgotPassword())
			limited.Post("/auth/reset/{token}", handlers.ResetPassword())
			limited.Post("/auth/register/{token}", handlers.RegisterInvited())
			limited.Post("/auth/verify/{token}", handlers.VerifyEmail())

			// Consent pages authenticate with the emailed token alone
			limited.Get("/consent/{token}", handlers.GetConsent())
			limited.Put("/consent/{token}", handlers.UpdateConsent())
		})
		v.Post("/auth/logout", handlers.Logout())

		// Reads: anonymous callers see public projects
		v.Group(func(read chi.Router) {
			read.Get("/projects", handlers.ListProjects())
			read.Get("/projects/{pid}", handlers.GetProject())
			read.Get("/projects/{pid}/sessions", handlers.ListSessions())
			read.Get("/projects/{pid}/sessions/{sid}", handlers.GetSession())
			read.Get("/projects/{pid}/sessions/{sid}/annotations", handlers.ListAnnotations())
			read.Get("/projects/{pid}/sessions/{sid}/annotations/{aid}/comments", handlers.ListComments())
			read.Get("/projects/{pid}/sessions/{sid}/annotations/{aid}/comments/{cid}/replies", handlers.ListReplies())
		})

		// Everything else needs a signed in caller
		v.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuthMiddleware())

			authed.Get("/auth/me", handlers.Me())
			authed.Put("/auth/device", handlers.SetDeviceToken())

			authed.Post("/projects", handlers.CreateProject())
			authed.Put("/projects/{pid}", handlers.UpdateProject())
			authed.Delete("/projects/{pid}", handlers.DeleteProject())
			authed.Get("/projects/{pid}/stats", handlers.ProjectStats())

			authed.Post("/projects/{pid}/sessions", handlers.CreateSession())

			authed.Post("/projects/{pid}/sessions/{sid}/annotations", handlers.CreateAnnotation())
			authed.Put("/projects/{pid}/sessions/{sid}/annotations/{aid}", handlers.UpdateAnnotation())
			authed.Delete("/projects/{pid}/sessions/{sid}/annotations/{aid}", handlers.DeleteAnnotation())

			authed.Post("/projects/{pid}/sessions/{sid}/annotations/{aid}/comments", handlers.CreateComment())
			authed.Post("/projects/{pid}/sessions/{sid}/annotations/{aid}/comments/{cid}", handlers.CreateComment())
			authed.Delete("/projects/{pid}/sessions/{sid}/annotations/{aid}/comments/{cid}", handlers.DeleteComment())

			authed.Get("/projects/{pid}/membership", handlers.ListMembers())
			authed.Post("/projects/{pid}/membership", handlers.JoinProject())
			authed.Delete("/projects/{pid}/membership", handlers.LeaveProject())
			authed.Post("/projects/{pid}/membership/invites", handlers.Invite())
			authed.Post("/projects/{pid}/membership/invites/{mid}", handlers.RespondToInvite())
			authed.Put("/projects/{pid}/membership/invites/{mid}", handlers.ChangeRole())
			authed.Delete("/projects/{pid}/membership/invites/{mid}", handlers.RemoveInvite())

			authed.Get("/playlists", handlers.ListPlaylists())
			authed.Post("/playlists", handlers.CreatePlaylist())
			authed.Get("/playlists/{plid}", handlers.GetPlaylist())
			authed.Put("/playlists/{plid}", handlers.UpdatePlaylist())
			authed.Delete("/playlists/{plid}", handlers.DeletePlaylist())
		})
	})
}
