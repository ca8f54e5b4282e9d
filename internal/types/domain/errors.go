package domain

import "errors"

var (
	ErrTeamExists          = errors.New("team exists")
	ErrTeamNotFound        = errors.New("team not found")
	ErrMemberNotFound      = errors.New("member not in team")
	ErrUserProfileNotFound = errors.New("user profile not found")
	ErrWBSNotFound         = errors.New("wbs not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidID           = errors.New("invalid id")
)
