// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"partnership-teams/internal/entities"
	"partnership-teams/internal/transport/http/dto"
	"partnership-teams/internal/usecase/domain"
)

// ToCompany maps entities.Company to transport model.
func ToCompany(c entities.Company) dto.Company {
	return dto.Company{
		ID:                c.ID,
		Name:              c.Name,
		TeamSize:          c.TeamSize,
		IsActive:          c.IsActive,
		TeamSizeChangedAt: c.TeamSizeChangedAt,
		CreatedAt:         c.CreatedAt,
	}
}

// ToCompanyList maps a slice of companies.
func ToCompanyList(list []entities.Company) []dto.Company {
	res := make([]dto.Company, 0, len(list))
	for _, c := range list {
		res = append(res, ToCompany(c))
	}
	return res
}

// FromRegisterUser builds an entities.User from the request body.
func FromRegisterUser(src dto.RegisterUserRequest) entities.User {
	return entities.User{
		Name:      src.Name,
		Email:     src.Email,
		Phone:     src.Phone,
		CompanyID: src.CompanyID,
	}
}

// ToUser maps entities.User to transport model.
func ToUser(u entities.User) dto.User {
	return dto.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		CompanyID:    u.CompanyID,
		JoinPosition: u.JoinPosition,
		CreatedAt:    u.CreatedAt,
	}
}

// ToUserList maps a slice of users.
func ToUserList(list []entities.User) []dto.User {
	res := make([]dto.User, 0, len(list))
	for _, u := range list {
		res = append(res, ToUser(u))
	}
	return res
}

// ToTeam maps entities.Team to transport model.
func ToTeam(t entities.Team) dto.Team {
	members := make([]string, 0, len(t.Members))
	members = append(members, t.Members...)
	return dto.Team{
		ID:        t.ID,
		GroupID:   t.GroupID,
		CompanyID: t.CompanyID,
		Number:    t.Number,
		LeaderID:  t.LeaderID,
		Status:    t.Status.String(),
		Members:   members,
		CreatedAt: t.CreatedAt,
	}
}

// ToTeamList maps a slice of teams.
func ToTeamList(list []entities.Team) []dto.Team {
	res := make([]dto.Team, 0, len(list))
	for _, t := range list {
		res = append(res, ToTeam(t))
	}
	return res
}

// ToUserTeamList maps the teams of one user.
func ToUserTeamList(list []entities.UserTeam) []dto.UserTeam {
	res := make([]dto.UserTeam, 0, len(list))
	for _, ut := range list {
		res = append(res, dto.UserTeam{Team: ToTeam(ut.Team), IsLeader: ut.IsLeader})
	}
	return res
}

// ToPartnershipList maps partnership history rows.
func ToPartnershipList(list []entities.Partnership) []dto.Partnership {
	res := make([]dto.Partnership, 0, len(list))
	for _, p := range list {
		res = append(res, dto.Partnership{
			UserID:    p.UserID,
			PartnerID: p.PartnerID,
			TeamID:    p.TeamID,
			CreatedAt: p.CreatedAt,
		})
	}
	return res
}

// ToRegistration maps the result of a user registration.
func ToRegistration(r domain.Registration) dto.Registration {
	res := dto.Registration{User: ToUser(r.User)}
	if r.LeaderTeam != nil {
		t := ToTeam(*r.LeaderTeam)
		res.LeaderTeam = &t
	}
	if r.MemberTeam != nil {
		t := ToTeam(*r.MemberTeam)
		res.MemberTeam = &t
	}
	return res
}
