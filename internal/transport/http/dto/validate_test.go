package dto

import (
	"testing"

	"partnership-teams/internal/entities"

	"github.com/stretchr/testify/require"
)

func TestValidateRegisterUser(t *testing.T) {
	bad := "nope"
	err := Validate(&RegisterUserRequest{Email: "not-an-email", CompanyID: &bad})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	require.Contains(t, err.Error(), "name is required")
	require.Contains(t, err.Error(), "email must be a valid email")
	require.Contains(t, err.Error(), "company_id must be a valid id")

	require.NoError(t, Validate(&RegisterUserRequest{Name: "A", Email: "a@x.io"}))
}

func TestValidateSetActive(t *testing.T) {
	require.ErrorIs(t, Validate(&SetActiveRequest{}), entities.ErrInvalidArgument)

	off := false
	require.NoError(t, Validate(&SetActiveRequest{IsActive: &off}))
}
