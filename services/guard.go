package services

import (
	stdContext "context"
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/shared"
)

// SessionGuardService enforces the single-device contract on every
// student-scoped request: only the token issued by the most recent
// login is accepted; holders of older tokens are kicked out on their
// next request, not proactively.
type SessionGuardService struct {
	context.DefaultService

	sqlSvc   *SqlService
	redisSvc *RedisService
}

const GUARD_SVC = "guard_svc"

func (svc SessionGuardService) Id() string {
	return GUARD_SVC
}

func (svc *SessionGuardService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Check validates a claimed student identity against the stored session
// state. Unknown accounts pass through unchanged; downstream lookups
// surface their own NotFound.
func (svc *SessionGuardService) Check(studentID, presentedToken string) error {
	user, err := svc.sqlSvc.GetUser(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return svc.sqlSvc.HandleError(err)
	}

	if user.IsSuspended {
		return shared.NewSuspendedError(user.SuspensionReason)
	}

	stored := svc.storedToken(user.ID, user.CurrentSessionID)
	if stored == "" {
		// No login has ever issued a token; nothing to enforce yet.
		return nil
	}

	// Once a token exists it is required: a request without one is
	// treated the same as a stale token.
	if presentedToken == "" || presentedToken != stored {
		sessionConflictsTotal.Inc()
		return shared.NewSessionConflictError()
	}

	return nil
}

// storedToken prefers the cache so a login on one instance invalidates
// older devices on all instances immediately.
func (svc *SessionGuardService) storedToken(userID string, fromDB *string) string {
	if cached, err := svc.redisSvc.Get(stdContext.Background(), sessionCacheKey(userID)); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Session cache read failed")
	} else if cached != "" {
		return cached
	}

	if fromDB != nil {
		return *fromDB
	}
	return ""
}

// VerifySession backs the client's periodic poll that detects kicked-out
// and suspended states.
func (svc *SessionGuardService) VerifySession(studentID, sessionToken string) (*dto.VerifySessionResponse, error) {
	user, err := svc.sqlSvc.GetUser(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Student not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	stored := svc.storedToken(user.ID, user.CurrentSessionID)
	if stored != "" && sessionToken != stored {
		return nil, shared.NewSessionConflictError()
	}

	return &dto.VerifySessionResponse{IsSuspended: user.IsSuspended}, nil
}

// StudentGuard is the Fiber middleware form of Check for the
// /api/v1/student group. Identity and token ride in the route params,
// headers, query string or JSON body, mirroring what the client sends.
func (svc *SessionGuardService) StudentGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID := guardStudentID(c)
		if studentID == "" {
			return c.Next()
		}

		if err := svc.Check(studentID, guardSessionToken(c)); err != nil {
			return err
		}

		return c.Next()
	}
}

func guardStudentID(c *fiber.Ctx) string {
	if id := c.Params("studentId"); id != "" {
		return id
	}
	if id := c.Get("User-Id"); id != "" {
		return id
	}
	if id := c.Query("studentId"); id != "" {
		return id
	}

	if len(c.Body()) > 0 {
		var body struct {
			StudentID string `json:"studentId"`
		}
		if err := sonic.Unmarshal(c.Body(), &body); err == nil {
			return body.StudentID
		}
	}
	return ""
}

func guardSessionToken(c *fiber.Ctx) string {
	if token := c.Get("Session-Id"); token != "" {
		return token
	}
	return c.Query("sessionId")
}
