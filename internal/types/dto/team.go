package dto

import "time"

type Requestor struct {
	UserID      string   `json:"userId" validate:"required,uuid"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type CreateTeamRequest struct {
	TeamName  string    `json:"teamName" validate:"required"`
	IsActive  bool      `json:"isActive"`
	Requestor Requestor `json:"requestor" validate:"required"`
}

type UpdateTeamRequest struct {
	TeamName  string    `json:"teamName" validate:"required"`
	IsActive  bool      `json:"isActive"`
	TeamCode  string    `json:"teamCode"`
	Requestor Requestor `json:"requestor" validate:"required"`
}

type DeleteTeamRequest struct {
	Requestor Requestor `json:"requestor" validate:"required"`
}

type MemberOperationRequest struct {
	UserID    string    `json:"userId" validate:"required,uuid"`
	Operation string    `json:"operation" validate:"required,oneof=Assign Unassign"`
	Requestor Requestor `json:"requestor" validate:"required"`
}

type UpdateVisibilityRequest struct {
	TeamID     string `json:"teamId" validate:"required,uuid"`
	UserID     string `json:"userId" validate:"required,uuid"`
	Visibility *bool  `json:"visibility" validate:"required"`
}

type GetTeam struct {
	ID               string       `json:"teamId"`
	TeamName         string       `json:"teamName"`
	IsActive         bool         `json:"isActive"`
	TeamCode         string       `json:"teamCode"`
	Members          []Membership `json:"members"`
	CreatedDatetime  time.Time    `json:"createdDatetime"`
	ModifiedDatetime time.Time    `json:"modifiedDatetime"`
}

type Membership struct {
	UserID      string    `json:"userId"`
	AddDateTime time.Time `json:"addDateTime"`
	Visible     bool      `json:"visible"`
}

type MemberProfile struct {
	UserID      string    `json:"userId"`
	AddDateTime time.Time `json:"addDateTime"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
}
