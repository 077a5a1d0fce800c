package models

import (
	"errors"
	"github.com/samber/lo"
	"strings"
)

type Role string

const (
	RoleJobOwner    Role = "Job Owner"
	RoleContributor Role = "Contributor"
	RoleReviewer    Role = "Reviewer"
)

var Roles = []Role{RoleJobOwner, RoleContributor, RoleReviewer}

var (
	ErrMemberNotFound = errors.New("team member not found")
	ErrMemberExists   = errors.New("team member already added")
	ErrOwnerRemoval   = errors.New("the job owner cannot be removed")
	ErrOwnerRole      = errors.New("the job owner role cannot be reassigned")
	ErrUnknownRole    = errors.New("unknown team role")
	ErrMemberEmail    = errors.New("team member email is required")
)

type TeamMember struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,basic_email,max=255"`
	Avatar  string `json:"avatar,omitempty"`
	Role    Role   `json:"role"`
	IsOwner bool   `json:"isOwner"`
}

type Team []TeamMember

// NewOwner turns the signed-in user into the owning member of a new career.
func NewOwner(user UserRef) TeamMember {
	return TeamMember{
		ID:      user.Email,
		Name:    user.Name,
		Email:   user.Email,
		Avatar:  user.Image,
		Role:    RoleJobOwner,
		IsOwner: true,
	}
}

func (t Team) Owners() int {
	return lo.CountBy(t, func(m TeamMember) bool { return m.IsOwner })
}

// Add appends the member as a contributor. The id defaults to the email.
func (t Team) Add(member TeamMember) (Team, error) {
	if strings.TrimSpace(member.Email) == "" {
		return t, ErrMemberEmail
	}
	if member.ID == "" {
		member.ID = member.Email
	}
	if lo.ContainsBy(t, func(m TeamMember) bool {
		return m.ID == member.ID || strings.EqualFold(m.Email, member.Email)
	}) {
		return t, ErrMemberExists
	}

	member.Role = RoleContributor
	member.IsOwner = false
	return append(append(Team{}, t...), member), nil
}

func (t Team) Remove(id string) (Team, error) {
	member, index, found := lo.FindIndexOf(t, func(m TeamMember) bool { return m.ID == id })
	if !found {
		return t, ErrMemberNotFound
	}
	if member.IsOwner {
		return t, ErrOwnerRemoval
	}
	return removeAt(t, index), nil
}

func (t Team) UpdateRole(id string, role Role) (Team, error) {
	if !lo.Contains(Roles, role) {
		return t, ErrUnknownRole
	}
	_, index, found := lo.FindIndexOf(t, func(m TeamMember) bool { return m.ID == id })
	if !found {
		return t, ErrMemberNotFound
	}
	if t[index].IsOwner && role != RoleJobOwner {
		return t, ErrOwnerRole
	}

	updated := append(Team{}, t...)
	updated[index].Role = role
	return updated, nil
}
