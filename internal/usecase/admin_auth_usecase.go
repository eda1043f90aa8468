package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"studio-booking/config"
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/domain/entity"
	"studio-booking/internal/service"
	"studio-booking/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotConfigured = errors.New("admin credentials not configured")
)

// LoginResult carries the signed session token alongside the session view.
type LoginResult struct {
	Token   string
	Session dto.SessionResponse
}

type AdminAuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, username, tokenID string) error
	SessionMaxAge() time.Duration
}

type adminAuthUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	username       string
	passwordHash   []byte
	jwtService     *jwt.JWTService
	sessionService *service.SessionService
	auditService   service.AuditService
}

// NewAdminAuthUsecase prepares the single admin account. A plain password is
// hashed once here so every login goes through bcrypt.
func NewAdminAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	admin config.AdminConfig,
	jwtService *jwt.JWTService,
	sessionService *service.SessionService,
	auditService service.AuditService,
) AdminAuthUsecase {
	u := &adminAuthUsecase{
		db:             db,
		log:            log,
		username:       admin.Username,
		jwtService:     jwtService,
		sessionService: sessionService,
		auditService:   auditService,
	}

	switch {
	case admin.PasswordHash != "":
		u.passwordHash = []byte(admin.PasswordHash)
	case admin.Password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Warnf("Failed to hash admin password: %+v", err)
		} else {
			u.passwordHash = hash
		}
	}

	return u
}

func (u *adminAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	if u.username == "" || len(u.passwordHash) == 0 {
		return nil, ErrAdminNotConfigured
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(u.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		u.log.Warnf("Failed admin login attempt for username %q", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, tokenID, err := u.jwtService.GenerateSessionToken(u.username)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	maxAge := u.jwtService.GetSessionMaxAge()
	if err := u.sessionService.Register(ctx, tokenID, maxAge); err != nil {
		u.log.Warnf("Failed to register session: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db, u.username, entity.AuditActionAdminLogin,
		"session", tokenID, map[string]string{"username": u.username}); err != nil {
		u.log.Warnf("Failed to audit admin login: %+v", err)
	}

	u.log.Infof("Admin logged in: %s", u.username)

	return &LoginResult{
		Token: token,
		Session: dto.SessionResponse{
			Username:  u.username,
			ExpiresAt: time.Now().Add(maxAge),
		},
	}, nil
}

// Logout revokes the session so the token stops working before it expires
func (u *adminAuthUsecase) Logout(ctx context.Context, username, tokenID string) error {
	if tokenID != "" {
		if err := u.sessionService.Revoke(ctx, tokenID); err != nil {
			u.log.Warnf("Failed to revoke session: %+v", err)
			return err
		}
	}

	if err := u.auditService.LogDelete(ctx, u.db, username, entity.AuditActionAdminLogout,
		"session", tokenID, nil); err != nil {
		u.log.Warnf("Failed to audit admin logout: %+v", err)
	}

	u.log.Infof("Admin logged out: %s", username)
	return nil
}

func (u *adminAuthUsecase) SessionMaxAge() time.Duration {
	return u.jwtService.GetSessionMaxAge()
}
