package handlers_fiber

import (
	"net/http"

	"partnership-teams/internal/mapper"
	"partnership-teams/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// PostUser registers a user and assigns its teams.
func (h *Handler) PostUser(c *fiber.Ctx) error {
	var body dto.RegisterUserRequest
	if err := parseBody(c, &body); err != nil {
		h.log.Errorw("failed to parse body", "error", err.Error())
		return writeError(c, err)
	}

	reg, err := h.uc.RegisterUser(c.UserContext(), mapper.FromRegisterUser(body))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToRegistration(*reg))
}

// GetUser returns one user.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	usr, err := h.uc.User(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		User dto.User `json:"user"`
	}{User: mapper.ToUser(*usr)})
}

// GetUserTeams returns the teams a user belongs to.
func (h *Handler) GetUserTeams(c *fiber.Ctx) error {
	teams, err := h.uc.UserTeams(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		UserID string         `json:"user_id"`
		Teams  []dto.UserTeam `json:"teams"`
	}{UserID: c.Params("id"), Teams: mapper.ToUserTeamList(teams)})
}

// GetUserPartners returns the partnership history of a user.
func (h *Handler) GetUserPartners(c *fiber.Ctx) error {
	partners, err := h.uc.Partners(c.UserContext(), c.Params("id"))
	if err != nil {
		h.log.Errorw("failed to get partners", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		UserID   string            `json:"user_id"`
		Partners []dto.Partnership `json:"partners"`
	}{UserID: c.Params("id"), Partners: mapper.ToPartnershipList(partners)})
}
