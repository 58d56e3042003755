package handlers_fiber

import (
	"net/http"

	"partnership-teams/internal/mapper"
	"partnership-teams/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// GetTeam returns team with members by id.
func (h *Handler) GetTeam(c *fiber.Ctx) error {
	team, err := h.uc.Team(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Team dto.Team `json:"team"`
	}{Team: mapper.ToTeam(*team)})
}

// PostTeamDeactivate marks the team inactive. Memberships and history stay.
func (h *Handler) PostTeamDeactivate(c *fiber.Ctx) error {
	team, err := h.uc.DeactivateTeam(c.UserContext(), c.Params("id"))
	if err != nil {
		h.log.Infow("failed to deactivate team", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(struct {
		Team dto.Team `json:"team"`
	}{Team: mapper.ToTeam(*team)})
}
