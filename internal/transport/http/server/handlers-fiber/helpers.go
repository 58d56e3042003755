package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"

	"partnership-teams/internal/entities"
	"partnership-teams/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := dto.CodeInternal
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = dto.CodeInvalidArgument
		msg = err.Error()
	case errors.Is(err, entities.ErrInvalidTeamSize):
		status = http.StatusBadRequest
		code = dto.CodeInvalidTeamSize
		msg = err.Error()
	case errors.Is(err, entities.ErrCompanyNotFound), errors.Is(err, entities.ErrUserNotFound), errors.Is(err, entities.ErrTeamNotFound):
		status = http.StatusNotFound
		code = dto.CodeNotFound
		msg = "resource not found"
	case errors.Is(err, entities.ErrCompanyExists):
		status = http.StatusConflict
		code = dto.CodeCompanyExists
		msg = "company name already exists"
	case errors.Is(err, entities.ErrEmailTaken):
		status = http.StatusConflict
		code = dto.CodeEmailExists
		msg = "email already registered"
	case errors.Is(err, entities.ErrLeaderTaken), errors.Is(err, entities.ErrFillingTeamExists),
		errors.Is(err, entities.ErrTeamNumberTaken), errors.Is(err, entities.ErrMembershipExists):
		status = http.StatusConflict
		code = dto.CodeTeamConflict
		msg = "conflicting team assignment, retry the request"
	case errors.Is(err, entities.ErrCompanyInactive):
		status = http.StatusUnprocessableEntity
		code = dto.CodeCompanyInactive
		msg = "company is not active"
	case errors.Is(err, entities.ErrTeamLimitReached):
		status = http.StatusUnprocessableEntity
		code = dto.CodeTeamLimit
		msg = "company reached its team limit"
	}

	return c.Status(status).JSON(dto.NewError(code, msg))
}

// parseBody decodes and validates a JSON body.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid body", entities.ErrInvalidArgument)
	}
	return dto.Validate(dst)
}
