package dto

import "time"

type CreateWBSRequest struct {
	WBSName   string    `json:"wbsName" validate:"required"`
	IsActive  *bool     `json:"isActive" validate:"required"`
	Requestor Requestor `json:"requestor" validate:"required"`
}

type DeleteWBSRequest struct {
	Requestor Requestor `json:"requestor" validate:"required"`
}

type GetWBS struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"projectId"`
	WBSName          string    `json:"wbsName"`
	IsActive         bool      `json:"isActive"`
	ModifiedDatetime time.Time `json:"modifiedDatetime"`
}
