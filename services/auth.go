package services

import (
	stdContext "context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

type AuthService struct {
	context.DefaultService

	sqlSvc   *SqlService
	jwtSvc   *JWTService
	redisSvc *RedisService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := svc.sqlSvc.GetUserByPhone(req.Phone); err == nil {
		return nil, shared.NewBadRequestError(nil, "Phone number is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svc.sqlSvc.HandleError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create account")
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}

	userID, _ := uuid.NewV7()
	user := &model.User{
		ID:          userID.String(),
		Name:        req.Name,
		Phone:       req.Phone,
		ParentPhone: req.ParentPhone,
		Password:    string(hashed),
		Grade:       req.Grade,
		Role:        role,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := svc.sqlSvc.CreateUser(user); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	token, err := svc.jwtSvc.ToJWT(user.ID, user.Role, "")
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	log.WithFields(log.Fields{"user_id": user.ID, "grade": user.Grade}).Info("Account registered")

	return &dto.RegisterResponse{
		Token:       token,
		Role:        user.Role,
		UserName:    user.Name,
		UserID:      user.ID,
		IsSuspended: user.IsSuspended,
	}, nil
}

// Login checks credentials and rotates the session token. A fresh token
// is issued on every successful login; the previous one is overwritten
// unconditionally, so whichever device logged in last owns the session.
func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.sqlSvc.GetUserByPhone(req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewBadRequestError(nil, "Invalid login credentials")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewBadRequestError(nil, "Invalid login credentials")
	}

	if user.IsSuspended {
		return nil, shared.NewSuspendedError(user.SuspensionReason)
	}

	sessionToken, err := newSessionToken()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue session")
	}

	now := time.Now()
	if err := svc.sqlSvc.RotateSession(user.ID, sessionToken, now); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if err := svc.redisSvc.Set(stdContext.Background(), sessionCacheKey(user.ID), sessionToken, 0); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to cache session token")
	}

	token, err := svc.jwtSvc.ToJWT(user.ID, user.Role, sessionToken)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	return &dto.LoginResponse{
		Token:            token,
		Role:             user.Role,
		UserName:         user.Name,
		UserID:           user.ID,
		Grade:            user.Grade,
		CurrentSessionID: sessionToken,
		IsSuspended:      user.IsSuspended,
	}, nil
}

// newSessionToken returns a 32-hex-char unguessable session token.
func newSessionToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func sessionCacheKey(userID string) string {
	return "session:" + userID
}

// RequiredAuth guards admin routes with a Bearer JWT.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		claims, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Invalid JWT token")
		}

		if claims.UserID == "" {
			return shared.NewUnauthorizedError(nil, "Invalid user ID in token")
		}

		c.Locals(shared.UserID, claims.UserID)
		c.Locals(shared.UserRole, claims.Role)
		c.Locals(shared.SessionID, claims.SessionID)
		return c.Next()
	}
}

func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(shared.UserRole) != role {
			return shared.NewForbiddenError(nil, "Forbidden")
		}
		return c.Next()
	}
}
