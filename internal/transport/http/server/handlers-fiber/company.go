package handlers_fiber

import (
	"net/http"

	"partnership-teams/internal/mapper"
	"partnership-teams/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// PostCompany creates a company.
func (h *Handler) PostCompany(c *fiber.Ctx) error {
	var body dto.CreateCompanyRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	company, err := h.uc.CreateCompany(c.UserContext(), body.Name, body.TeamSize)
	if err != nil {
		h.log.Errorw("failed to create company", "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Company dto.Company `json:"company"`
	}{Company: mapper.ToCompany(*company)})
}

// GetCompanies lists companies.
func (h *Handler) GetCompanies(c *fiber.Ctx) error {
	list, err := h.uc.ListCompanies(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Companies []dto.Company `json:"companies"`
	}{Companies: mapper.ToCompanyList(list)})
}

// GetCompany returns one company.
func (h *Handler) GetCompany(c *fiber.Ctx) error {
	company, err := h.uc.Company(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Company dto.Company `json:"company"`
	}{Company: mapper.ToCompany(*company)})
}

// PostCompanyTeamSize changes the team size used for future joins.
func (h *Handler) PostCompanyTeamSize(c *fiber.Ctx) error {
	var body dto.SetTeamSizeRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	company, err := h.uc.SetTeamSize(c.UserContext(), c.Params("id"), body.TeamSize)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Company dto.Company `json:"company"`
	}{Company: mapper.ToCompany(*company)})
}

// PostCompanyActive toggles the company active flag.
func (h *Handler) PostCompanyActive(c *fiber.Ctx) error {
	var body dto.SetActiveRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	company, err := h.uc.SetCompanyActive(c.UserContext(), c.Params("id"), *body.IsActive)
	if err != nil {
		h.log.Errorw("failed to set is_active for company", "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Company dto.Company `json:"company"`
	}{Company: mapper.ToCompany(*company)})
}

// GetCompanyUsers lists the company's users in join order.
func (h *Handler) GetCompanyUsers(c *fiber.Ctx) error {
	users, err := h.uc.CompanyUsers(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		CompanyID string     `json:"company_id"`
		Users     []dto.User `json:"users"`
	}{CompanyID: c.Params("id"), Users: mapper.ToUserList(users)})
}

// GetCompanyTeams lists the company's teams with members.
func (h *Handler) GetCompanyTeams(c *fiber.Ctx) error {
	teams, err := h.uc.CompanyTeams(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		CompanyID string     `json:"company_id"`
		Teams     []dto.Team `json:"teams"`
	}{CompanyID: c.Params("id"), Teams: mapper.ToTeamList(teams)})
}
