package permissions

import "investmanager.com/types"

// Resource names what an actor wants to act on. Account-scoped resources are
// combined with the actor's level on that account.
type Resource int

const (
	ManagePermissions Resource = iota
	ManageUsers
	UserReports
	EditAccount
	DeleteAccount
)

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision              { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide is the single capability check for operations that are not plain
// account reads or writes.
func Decide(actor types.Actor, resource Resource, level types.AccessLevel) Decision {
	switch resource {
	case ManagePermissions:
		if actor.IsAdmin {
			return allow()
		}
		return deny("only platform administrators may manage permissions")
	case ManageUsers:
		if actor.IsAdmin {
			return allow()
		}
		return deny("only platform administrators may manage users")
	case UserReports:
		if actor.IsAdmin {
			return allow()
		}
		return deny("only platform administrators may view other users' transactions")
	case EditAccount, DeleteAccount:
		if actor.IsAdmin || level == types.FullAccess {
			return allow()
		}
		if level == types.NoAccess {
			return deny(msgNoAccess)
		}
		return deny("full access required")
	}
	return deny("unknown resource")
}
