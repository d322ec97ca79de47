package services

import (
	"errors"
	"fmt"
	"strings"

	"investmanager.com/dto"
	"investmanager.com/permissions"
	"investmanager.com/portfolio"
	"investmanager.com/types"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

type AccountService struct {
	db        *gorm.DB
	registry  *permissions.Registry
	positions *portfolio.PositionStore
	ledger    *portfolio.Ledger
}

func NewAccountService(conn *gorm.DB, registry *permissions.Registry) *AccountService {
	return &AccountService{
		db:        conn,
		registry:  registry,
		positions: portfolio.NewPositionStore(),
		ledger:    portfolio.NewLedger(),
	}
}

// Create makes actor a member of the new account with the requested level.
func (s *AccountService) Create(actor types.Actor, req dto.CreateAccountRequest) (*types.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, types.InvalidInput("name is required")
	}
	level := types.AccessLevel(req.Permission)
	if level != types.NoAccess && !level.Valid() {
		return nil, types.InvalidInput("invalid permission level")
	}

	account := types.Account{Name: name, Description: req.Description}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&types.Account{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.InvalidInput("account with this name already exists")
		}
		if err := tx.Create(&account).Error; err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		var creator types.User
		if err := tx.First(&creator, actor.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("user %d not found", actor.UserID)
			}
			return err
		}
		if err := tx.Model(&account).Association("Members").Append(&creator); err != nil {
			return fmt.Errorf("add account member: %w", err)
		}
		_, err := s.registry.GrantOnCreate(tx, actor.UserID, account.ID, level)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Infof("User %d created account %d (%s)", actor.UserID, account.ID, account.Name)
	return &account, nil
}

// List returns every account for administrators, otherwise only member
// accounts.
func (s *AccountService) List(actor types.Actor) ([]types.Account, error) {
	accounts := []types.Account{}
	q := s.db.Order("id")
	if !actor.IsAdmin {
		ids, err := MemberAccountIDs(s.db, actor.UserID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return accounts, nil
		}
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *AccountService) Get(actor types.Actor, id uint) (*types.Account, error) {
	account, err := s.load(s.db.Preload("Members"), id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		if err := s.registry.Require(nil, actor.UserID, id, permissions.Read); err != nil {
			return nil, err
		}
	}
	return account, nil
}

func (s *AccountService) Update(actor types.Actor, id uint, req dto.UpdateAccountRequest) (*types.Account, error) {
	account, err := s.load(s.db, id)
	if err != nil {
		return nil, err
	}
	level, err := s.registry.LevelOf(nil, actor.UserID, id)
	if err != nil {
		return nil, err
	}
	if d := permissions.Decide(actor, permissions.EditAccount, level); !d.Allowed {
		return nil, types.AccessDenied(d.Reason)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, types.InvalidInput("name is required")
		}
		var count int64
		if err := s.db.Model(&types.Account{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, types.InvalidInput("account with this name already exists")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return account, nil
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}
	return s.load(s.db, id)
}

// Delete removes the account and everything scoped to it in one DB
// transaction.
func (s *AccountService) Delete(actor types.Actor, id uint) error {
	account, err := s.load(s.db, id)
	if err != nil {
		return err
	}
	level, err := s.registry.LevelOf(nil, actor.UserID, id)
	if err != nil {
		return err
	}
	if d := permissions.Decide(actor, permissions.DeleteAccount, level); !d.Allowed {
		return types.AccessDenied(d.Reason)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.DeleteForAccount(tx, id); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if err := s.positions.DeleteForAccount(tx, id); err != nil {
			return fmt.Errorf("delete investments: %w", err)
		}
		if err := s.registry.DeleteForAccount(tx, id); err != nil {
			return fmt.Errorf("delete permissions: %w", err)
		}
		if err := tx.Model(account).Association("Members").Clear(); err != nil {
			return fmt.Errorf("clear members: %w", err)
		}
		if err := tx.Model(&types.User{}).Where("current_account_id = ?", id).Update("current_account_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return err
	}
	log.Infof("User %d deleted account %d", actor.UserID, id)
	return nil
}

// Select sets the caller's current account. Non-members get NotFound so the
// account's existence is not revealed.
func (s *AccountService) Select(actor types.Actor, id uint) (*types.Account, error) {
	ids, err := MemberAccountIDs(s.db, actor.UserID)
	if err != nil {
		return nil, err
	}
	member := false
	for _, m := range ids {
		if m == id {
			member = true
			break
		}
	}
	if !member {
		return nil, types.NotFound("account %d not found", id)
	}
	if err := s.db.Model(&types.User{ID: actor.UserID}).Update("current_account_id", id).Error; err != nil {
		return nil, err
	}
	return s.load(s.db, id)
}

func (s *AccountService) load(q *gorm.DB, id uint) (*types.Account, error) {
	var account types.Account
	err := q.First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("account %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
