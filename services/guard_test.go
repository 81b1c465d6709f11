package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qalam-academy/tutor_api/shared"
)

func newTestGuard(s *SqlService) *SessionGuardService {
	// No cache backend in tests; the guard falls through to the store.
	return &SessionGuardService{sqlSvc: s, redisSvc: nil}
}

func TestGuardCheck_UnknownAccountPassesThrough(t *testing.T) {
	s := newTestSql(t)
	guard := newTestGuard(s)

	assert.NoError(t, guard.Check("no-such-user", "whatever"))
}

func TestGuardCheck_NoTokenIssuedYet(t *testing.T) {
	s := newTestSql(t)
	guard := newTestGuard(s)
	user := seedStudent(t, s, "1-sec")

	// Nothing stored, so nothing is enforced.
	assert.NoError(t, guard.Check(user.ID, ""))
	assert.NoError(t, guard.Check(user.ID, "stale-token"))
}

func TestGuardCheck_NewerLoginInvalidatesOlderToken(t *testing.T) {
	s := newTestSql(t)
	guard := newTestGuard(s)
	user := seedStudent(t, s, "1-sec")

	require.NoError(t, s.RotateSession(user.ID, "token-1", time.Now()))
	assert.NoError(t, guard.Check(user.ID, "token-1"))

	require.NoError(t, s.RotateSession(user.ID, "token-2", time.Now()))

	err := guard.Check(user.ID, "token-1")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, true, appErr.Flags["kickOut"])

	assert.NoError(t, guard.Check(user.ID, "token-2"))
}

func TestGuardCheck_MissingTokenAfterIssue(t *testing.T) {
	s := newTestSql(t)
	guard := newTestGuard(s)
	user := seedStudent(t, s, "1-sec")

	require.NoError(t, s.RotateSession(user.ID, "token-1", time.Now()))

	err := guard.Check(user.ID, "")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, true, appErr.Flags["kickOut"])
}

func TestGuardCheck_SuspendedBeatsSessionState(t *testing.T) {
	s := newTestSql(t)
	guard := newTestGuard(s)
	user := seedStudent(t, s, "1-sec")

	require.NoError(t, s.RotateSession(user.ID, "token-1", time.Now()))
	_, err := s.SetSuspension(user.ID, true, "cheating")
	require.NoError(t, err)

	// Even the valid token is refused while suspended.
	err = guard.Check(user.ID, "token-1")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, true, appErr.Flags["isSuspended"])
}

func TestVerifySession_States(t *testing.T) {
	s := newTestSql(t)
	guard := newTestGuard(s)
	user := seedStudent(t, s, "1-sec")

	_, err := guard.VerifySession("ghost", "any")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)

	require.NoError(t, s.RotateSession(user.ID, "token-1", time.Now()))

	resp, err := guard.VerifySession(user.ID, "token-1")
	require.NoError(t, err)
	assert.False(t, resp.IsSuspended)

	_, err = guard.VerifySession(user.ID, "token-old")
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)

	_, err = s.SetSuspension(user.ID, true, "unpaid")
	require.NoError(t, err)

	resp, err = guard.VerifySession(user.ID, "token-1")
	require.NoError(t, err)
	assert.True(t, resp.IsSuspended)
}
