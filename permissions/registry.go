// Package permissions answers "may this user do this to that account".
//
// Account-level access comes from one permission record per (user, account).
// Platform administration is a separate capability carried by the actor and
// is only consulted through Decide.
package permissions

import (
	"errors"
	"fmt"

	"investmanager.com/types"

	"gorm.io/gorm"
)

type Action int

const (
	Read Action = iota
	Write
)

func (a Action) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

const (
	msgNoAccess = "no access to this account"
	msgViewOnly = "view-only"
	msgPostOnly = "post-only"
)

type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// LevelOf returns NoAccess when the pair has no record.
func (r *Registry) LevelOf(tx *gorm.DB, userID, accountID uint) (types.AccessLevel, error) {
	var p types.Permission
	err := r.conn(tx).Where("user_id = ? AND account_id = ?", userID, accountID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NoAccess, nil
	}
	if err != nil {
		return types.NoAccess, fmt.Errorf("load permission user=%d account=%d: %w", userID, accountID, err)
	}
	return p.Level, nil
}

// Require fails with an AccessDenied error naming the level that blocked the
// action.
func (r *Registry) Require(tx *gorm.DB, userID, accountID uint, action Action) error {
	level, err := r.LevelOf(tx, userID, accountID)
	if err != nil {
		return err
	}
	return Check(level, action)
}

// Check is the pure level/action table.
func Check(level types.AccessLevel, action Action) error {
	switch level {
	case types.FullAccess:
		return nil
	case types.ViewOnly:
		if action == Write {
			return types.AccessDenied(msgViewOnly)
		}
		return nil
	case types.PostOnly:
		if action == Read {
			return types.AccessDenied(msgPostOnly)
		}
		return nil
	}
	return types.AccessDenied(msgNoAccess)
}

// ReadableAccounts lists the accounts whose transaction history userID may
// read.
func (r *Registry) ReadableAccounts(tx *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := r.conn(tx).Model(&types.Permission{}).
		Where("user_id = ? AND permission IN ?", userID, []types.AccessLevel{types.ViewOnly, types.FullAccess}).
		Order("account_id").
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list readable accounts for user %d: %w", userID, err)
	}
	return ids, nil
}

func (r *Registry) ListForUser(userID uint) ([]types.Permission, error) {
	var perms []types.Permission
	if err := r.db.Where("user_id = ?", userID).Order("account_id").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *Registry) Get(id uint) (*types.Permission, error) {
	var p types.Permission
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("permission %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GrantOnCreate records the creator's level as part of account creation. It
// is the only write path that skips the admin capability check.
func (r *Registry) GrantOnCreate(tx *gorm.DB, userID, accountID uint, level types.AccessLevel) (*types.Permission, error) {
	if level == types.NoAccess {
		level = types.ViewOnly
	}
	if !level.Valid() {
		return nil, types.InvalidInput("invalid permission level")
	}
	p := types.Permission{UserID: userID, AccountID: accountID, Level: level}
	if err := tx.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("grant creator permission: %w", err)
	}
	return &p, nil
}

// Grant creates a record for another user and adds them as a member of the
// account. Admin only.
func (r *Registry) Grant(actor types.Actor, userID, accountID uint, level types.AccessLevel) (*types.Permission, error) {
	if d := Decide(actor, ManagePermissions, types.NoAccess); !d.Allowed {
		return nil, types.AccessDenied(d.Reason)
	}
	if !level.Valid() {
		return nil, types.InvalidInput("invalid permission level")
	}

	var created types.Permission
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user types.User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFoundOr(err, "user %d not found", userID)
		}
		var account types.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			return notFoundOr(err, "account %d not found", accountID)
		}

		existing, err := r.LevelOf(tx, userID, accountID)
		if err != nil {
			return err
		}
		if existing != types.NoAccess {
			return types.InvalidInput("permission already exists for this user and account")
		}

		created = types.Permission{UserID: userID, AccountID: accountID, Level: level}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return tx.Model(&account).Association("Members").Append(&user)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Registry) Update(actor types.Actor, permissionID uint, level types.AccessLevel) (*types.Permission, error) {
	if d := Decide(actor, ManagePermissions, types.NoAccess); !d.Allowed {
		return nil, types.AccessDenied(d.Reason)
	}
	if !level.Valid() {
		return nil, types.InvalidInput("invalid permission level")
	}

	p, err := r.Get(permissionID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(p).Update("permission", level).Error; err != nil {
		return nil, err
	}
	p.Level = level
	return p, nil
}

// Revoke deletes the record and drops the membership, leaving the user with
// no access.
func (r *Registry) Revoke(actor types.Actor, permissionID uint) error {
	if d := Decide(actor, ManagePermissions, types.NoAccess); !d.Allowed {
		return types.AccessDenied(d.Reason)
	}
	p, err := r.Get(permissionID)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&types.Permission{}, p.ID).Error; err != nil {
			return err
		}
		return tx.Model(&types.Account{ID: p.AccountID}).Association("Members").Delete(&types.User{ID: p.UserID})
	})
}

func (r *Registry) DeleteForAccount(tx *gorm.DB, accountID uint) error {
	return tx.Where("account_id = ?", accountID).Delete(&types.Permission{}).Error
}

func (r *Registry) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(format, args...)
	}
	return err
}
