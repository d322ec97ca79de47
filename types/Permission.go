package types

// AccessLevel is scoped to one (user, account) pair. The empty level means
// there is no permission record at all.
type AccessLevel string

const (
	NoAccess   AccessLevel = ""
	ViewOnly   AccessLevel = "view"
	PostOnly   AccessLevel = "post"
	FullAccess AccessLevel = "full"
)

func (l AccessLevel) Valid() bool {
	return l == ViewOnly || l == PostOnly || l == FullAccess
}

func (l AccessLevel) String() string {
	switch l {
	case ViewOnly:
		return "VIEW_ONLY"
	case PostOnly:
		return "POST_ONLY"
	case FullAccess:
		return "FULL_ACCESS"
	}
	return "NONE"
}

type Permission struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_permission_user_account" json:"user"`
	AccountID uint        `gorm:"not null;uniqueIndex:idx_permission_user_account" json:"account"`
	Level     AccessLevel `gorm:"column:permission;size:10;not null;default:view" json:"permission"`
}

func (Permission) TableName() string {
	return "account_permissions"
}

// Actor is the authenticated caller as supplied by the auth middleware.
type Actor struct {
	UserID   uint
	Username string
	IsAdmin  bool
}
