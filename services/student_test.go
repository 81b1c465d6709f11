package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

func TestActivateCode_GrantsMonth(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	seedCode(t, s, "MRW-ACT00001", "1-sec", "september")

	before := time.Now()
	resp, err := svc.ActivateCode(dto.ActivateCodeRequest{Code: "MRW-ACT00001", StudentID: user.ID})

	require.NoError(t, err)
	assert.Equal(t, "september", resp.Month)
	assert.Equal(t, shared.BranchGeneral, resp.Branch)

	subs, err := s.GetSubscriptions(user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "september", subs[0].Month)
	assert.WithinDuration(t, before.Add(shared.SubscriptionWindow), subs[0].ExpiresAt, 5*time.Second)
}

func TestActivateCode_SuspendedStudent(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	seedCode(t, s, "MRW-ACT00002", "1-sec", "september")

	_, err := s.SetSuspension(user.ID, true, "unpaid")
	require.NoError(t, err)

	_, err = svc.ActivateCode(dto.ActivateCodeRequest{Code: "MRW-ACT00002", StudentID: user.ID})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, true, appErr.Flags["isSuspended"])

	// The code survives for when the account comes back.
	available, err := s.CountCodes(false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)
}

func TestActivateCode_UnknownStudent(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}

	_, err := svc.ActivateCode(dto.ActivateCodeRequest{Code: "MRW-X", StudentID: "ghost"})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestGetMyLessons_PartitionsContent(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	grantMonth(t, s, user.ID, "september")

	videoLesson := &model.Lesson{
		ID: uuid.New().String(), Title: "Video only", Grade: "1-sec", Month: "september",
		VideoURL: "https://cdn.example.com/v.mp4",
	}
	require.NoError(t, s.CreateLesson(videoLesson))

	// A bare attachment carrier surfaces in neither list.
	pdfLesson := &model.Lesson{
		ID: uuid.New().String(), Title: "Handout", Grade: "1-sec", Month: "september",
		Branch: shared.BranchExternalFile, PDFURL: "https://files.example.com/h.pdf",
	}
	require.NoError(t, s.CreateLesson(pdfLesson))

	quizLesson := seedLessonWithQuiz(t, s, "1-sec", "september", sampleQuestions())
	standalone := seedStandaloneQuiz(t, s, "1-sec", "september", sampleQuestions())

	// Same grade, month outside the entitlement.
	seedLessonWithQuiz(t, s, "1-sec", "december", sampleQuestions())

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)

	lessonIDs := contentIDs(resp.Lessons)
	assert.Contains(t, lessonIDs, videoLesson.ID)
	assert.NotContains(t, lessonIDs, quizLesson.ID)
	assert.NotContains(t, lessonIDs, pdfLesson.ID)
	assert.NotContains(t, contentIDs(resp.Quizzes), pdfLesson.ID)

	quizIDs := contentIDs(resp.Quizzes)
	assert.Contains(t, quizIDs, quizLesson.ID)
	assert.Contains(t, quizIDs, standalone.ID)
	assert.NotContains(t, quizIDs, videoLesson.ID)
	assert.Len(t, resp.Quizzes, 2)

	for _, item := range resp.Quizzes {
		assert.Equal(t, 4, item.QuestionCount)
		assert.False(t, item.AlreadyTaken)
	}
	assert.Empty(t, resp.Message)
}

func TestGetMyLessons_NoActiveSubscription(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")

	// An expired grant does not count.
	require.NoError(t, s.AddSubscription(&model.Subscription{
		ID: uuid.New().String(), UserID: user.ID, Month: "september",
		ActivatedAt: time.Now().Add(-40 * 24 * time.Hour),
		ExpiresAt:   time.Now().Add(-10 * 24 * time.Hour),
	}))

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Lessons)
	assert.Empty(t, resp.Quizzes)
	assert.Contains(t, resp.Message, "redeem")
}

func TestGetMyLessons_SuspendedKeepsHistory(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	grantMonth(t, s, user.ID, "september")
	lesson := seedLessonWithQuiz(t, s, "1-sec", "september", sampleQuestions())

	quizSvc := &QuizService{sqlSvc: s}
	_, err := quizSvc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID, QuizID: lesson.ID, Answers: []string{"4", "Cairo", "Water", "9"},
	})
	require.NoError(t, err)

	_, err = s.SetSuspension(user.ID, true, "unpaid")
	require.NoError(t, err)

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsSuspended)
	assert.Empty(t, resp.Lessons)
	assert.Empty(t, resp.Quizzes)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, lesson.Title, resp.Results[0].QuizTitle)
}

func TestGetMyLessons_AlreadyTakenByID(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	grantMonth(t, s, user.ID, "september")
	quiz := seedStandaloneQuiz(t, s, "1-sec", "september", sampleQuestions())

	quizSvc := &QuizService{sqlSvc: s}
	_, err := quizSvc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID, QuizID: quiz.ID, Answers: []string{"4", "Cairo", "Water", "9"},
	})
	require.NoError(t, err)

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)
	require.Len(t, resp.Quizzes, 1)
	assert.True(t, resp.Quizzes[0].AlreadyTaken)
}

func TestGetMyLessons_LessonAlreadyTaken(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	grantMonth(t, s, user.ID, "september")

	// A lecture carrying its own question set stays in the lessons list
	// and gets annotated once the attempt lands.
	lesson := &model.Lesson{
		ID: uuid.New().String(), Title: "Lecture with exam", Grade: "1-sec", Month: "september",
		VideoURL: "https://cdn.example.com/l.mp4", Questions: mustJSON(t, sampleQuestions()),
		ExamDuration: 30,
	}
	require.NoError(t, s.CreateLesson(lesson))

	quizSvc := &QuizService{sqlSvc: s}
	_, err := quizSvc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID, QuizID: lesson.ID, Answers: []string{"4", "Cairo", "Water", "9"},
	})
	require.NoError(t, err)

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)
	require.Len(t, resp.Lessons, 1)
	assert.True(t, resp.Lessons[0].AlreadyTaken)
}

func TestGetMyLessons_AlreadyTakenByTitleFallback(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	grantMonth(t, s, user.ID, "september")
	quiz := seedStandaloneQuiz(t, s, "1-sec", "september", sampleQuestions())

	// A legacy record carrying only the title, no source ids.
	require.NoError(t, s.Db().Create(&model.ScoreRecord{
		ID: uuid.New().String(), UserID: user.ID, SourceID: "legacy-" + uuid.New().String(),
		QuizTitle: quiz.Title, Score: 2, Total: 4, Percentage: "50.0",
	}).Error)

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)
	require.Len(t, resp.Quizzes, 1)
	assert.True(t, resp.Quizzes[0].AlreadyTaken)
}

func TestGetMyLessons_DistinctMonths(t *testing.T) {
	s := newTestSql(t)
	svc := &StudentService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")

	// Two redemptions for the same month plus one for another.
	grantMonth(t, s, user.ID, "september")
	grantMonth(t, s, user.ID, "september")
	grantMonth(t, s, user.ID, "october")

	seedLessonWithQuiz(t, s, "1-sec", "september", sampleQuestions())
	seedLessonWithQuiz(t, s, "1-sec", "october", sampleQuestions())

	resp, err := svc.GetMyLessons(user.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Quizzes, 2)
}

func grantMonth(t *testing.T, s *SqlService, userID, month string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.AddSubscription(&model.Subscription{
		ID:          uuid.New().String(),
		UserID:      userID,
		Month:       month,
		Branch:      shared.BranchGeneral,
		ActivatedAt: now,
		ExpiresAt:   now.Add(shared.SubscriptionWindow),
	}))
}

func contentIDs(items []dto.ContentItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
