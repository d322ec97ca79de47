package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"investmanager.com/dto"
	"investmanager.com/permissions"
	"investmanager.com/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var errBadCredentials = types.Unauthenticated("invalid username or password")

type AuthService struct {
	db         *gorm.DB
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(conn *gorm.DB, key []byte, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		db:         conn,
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *AuthService) Register(req dto.RegisterRequest) (*dto.TokenPair, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&types.User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, types.InvalidInput("username or email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := types.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issuePair(user)
}

func (s *AuthService) Login(req dto.LoginRequest) (*dto.TokenPair, error) {
	var user types.User
	err := s.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errBadCredentials
	}
	return s.issuePair(user)
}

// Refresh exchanges a refresh token for a new access token. The admin flag is
// re-read so promotions take effect without logging in again.
func (s *AuthService) Refresh(req dto.RefreshRequest) (*dto.TokenPair, error) {
	claims, err := s.Parse(req.Refresh)
	if err != nil {
		return nil, err
	}
	if claims["type"] != TokenTypeRefresh {
		return nil, types.Unauthenticated("not a refresh token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return nil, types.Unauthenticated("token has no user")
	}

	var user types.User
	if err := s.db.First(&user, uint(id)).Error; err != nil {
		return nil, types.Unauthenticated("user no longer exists")
	}
	access, err := s.sign(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Access: access}, nil
}

// Parse verifies an HS256 token signed with this service's key.
func (s *AuthService) Parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, types.Unauthenticated("invalid or expired token")
	}
	return token.Claims.(jwt.MapClaims), nil
}

// Promote grants platform administration. Only reachable from the CLI or by
// an existing administrator.
func (s *AuthService) Promote(actor types.Actor, username string) (*types.User, error) {
	if d := permissions.Decide(actor, permissions.ManageUsers, types.NoAccess); !d.Allowed {
		return nil, types.AccessDenied(d.Reason)
	}
	var user types.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("user %s not found", username)
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(&user).Update("is_admin", true).Error; err != nil {
		return nil, err
	}
	user.IsAdmin = true
	return &user, nil
}

func (s *AuthService) issuePair(user types.User) (*dto.TokenPair, error) {
	access, err := s.sign(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) sign(user types.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"type":     tokenType,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
