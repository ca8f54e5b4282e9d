package permissions

import (
	"context"

	"github.com/vikrambadhan/HGNRest/internal/types/domain"
)

// Actions guarded by the checker.
const (
	ActionPostTeam          = "postTeam"
	ActionPutTeam           = "putTeam"
	ActionDeleteTeam        = "deleteTeam"
	ActionAssignTeamToUsers = "assignTeamToUsers"
	ActionEditTeamCode      = "editTeamCode"
	ActionPostWBS           = "postWbs"
	ActionDeleteWBS         = "deleteWbs"
	ActionPutUserProfile    = "putUserProfile"
)

const (
	RoleOwner         = "Owner"
	RoleAdministrator = "Administrator"
	RoleManager       = "Manager"
	RoleVolunteer     = "Volunteer"
)

type Checker struct {
	rolePresets map[string][]string
}

func NewChecker() *Checker {
	return &Checker{
		rolePresets: map[string][]string{
			RoleOwner: {
				ActionPostTeam, ActionPutTeam, ActionDeleteTeam,
				ActionAssignTeamToUsers, ActionEditTeamCode,
				ActionPostWBS, ActionDeleteWBS, ActionPutUserProfile,
			},
			RoleAdministrator: {
				ActionPostTeam, ActionPutTeam, ActionDeleteTeam,
				ActionAssignTeamToUsers, ActionEditTeamCode,
				ActionPostWBS, ActionDeleteWBS, ActionPutUserProfile,
			},
			RoleManager: {
				ActionPutTeam, ActionAssignTeamToUsers,
			},
		},
	}
}

// Check answers whether the requestor may perform the action, either
// through a role preset or an explicitly granted capability.
func (c *Checker) Check(_ context.Context, requestor domain.Requestor, action string) (bool, error) {
	for _, a := range c.rolePresets[requestor.Role] {
		if a == action {
			return true, nil
		}
	}
	return requestor.HasCapability(action), nil
}
