package handlers_fiber

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterHandlers mounts the API on router. Mutating company and team
// routes go through admin.
func RegisterHandlers(router fiber.Router, h *Handler, admin fiber.Handler, gatherer prometheus.Gatherer) {
	router.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	if gatherer != nil {
		router.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	router.Post("/companies", admin, h.PostCompany)
	router.Get("/companies", h.GetCompanies)
	router.Get("/companies/:id", h.GetCompany)
	router.Post("/companies/:id/team-size", admin, h.PostCompanyTeamSize)
	router.Post("/companies/:id/active", admin, h.PostCompanyActive)
	router.Get("/companies/:id/users", h.GetCompanyUsers)
	router.Get("/companies/:id/teams", h.GetCompanyTeams)

	router.Post("/users", h.PostUser)
	router.Get("/users/:id", h.GetUser)
	router.Get("/users/:id/teams", h.GetUserTeams)
	router.Get("/users/:id/partners", h.GetUserPartners)

	router.Get("/teams/:id", h.GetTeam)
	router.Post("/teams/:id/deactivate", admin, h.PostTeamDeactivate)
}
