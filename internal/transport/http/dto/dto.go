// Package dto holds the JSON request and response bodies of the HTTP API.
package dto

import "time"

// Error codes carried in ErrorResponse.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInvalidTeamSize = "INVALID_TEAM_SIZE"
	CodeCompanyExists   = "COMPANY_EXISTS"
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeCompanyInactive = "COMPANY_INACTIVE"
	CodeTeamLimit       = "TEAM_LIMIT_REACHED"
	CodeTeamConflict    = "TEAM_CONFLICT"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL"
)

// ErrorBody is the inner error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewError builds an ErrorResponse.
func NewError(code, msg string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: msg}}
}

// CreateCompanyRequest is the body of POST /companies.
type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	TeamSize int    `json:"team_size" validate:"required"`
}

// SetTeamSizeRequest is the body of POST /companies/:id/team-size.
type SetTeamSizeRequest struct {
	TeamSize int `json:"team_size" validate:"required"`
}

// SetActiveRequest is the body of POST /companies/:id/active.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Email     string  `json:"email" validate:"required,email,max=320"`
	Phone     string  `json:"phone" validate:"omitempty,max=32"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
}

type Company struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	TeamSize          int        `json:"team_size"`
	IsActive          bool       `json:"is_active"`
	TeamSizeChangedAt *time.Time `json:"team_size_changed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	CompanyID    *string   `json:"company_id,omitempty"`
	JoinPosition int       `json:"join_position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Team struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	CompanyID string    `json:"company_id"`
	Number    int       `json:"number"`
	LeaderID  string    `json:"leader_id"`
	Status    string    `json:"status"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

type UserTeam struct {
	Team
	IsLeader bool `json:"is_leader"`
}

type Partnership struct {
	UserID    string    `json:"user_id"`
	PartnerID string    `json:"partner_id"`
	TeamID    string    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Registration is the response of POST /users.
type Registration struct {
	User       User  `json:"user"`
	LeaderTeam *Team `json:"leader_team,omitempty"`
	MemberTeam *Team `json:"member_team,omitempty"`
}
