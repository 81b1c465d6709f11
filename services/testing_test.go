package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qalam-academy/tutor_api/model"
)

// newTestSql opens an isolated in-memory database migrated to the
// portal schema. TranslateError is on, matching production, so the
// duplicate-key paths behave the same under sqlite.
func newTestSql(t *testing.T) *SqlService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(portalModels()...))

	return &SqlService{db: db}
}

func seedStudent(t *testing.T, s *SqlService, grade string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		ID:          uuid.New().String(),
		Name:        "Test Student",
		Phone:       "010" + uuid.New().String()[:8],
		ParentPhone: "01098765432",
		Password:    string(hashed),
		Grade:       grade,
		Role:        model.RoleStudent,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, s.CreateUser(user))
	return user
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func seedLessonWithQuiz(t *testing.T, s *SqlService, grade, month string, questions []model.Question) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		ID:           uuid.New().String(),
		Title:        "Lecture " + uuid.New().String()[:6],
		Grade:        grade,
		Month:        month,
		Questions:    mustJSON(t, questions),
		ExamDuration: 30,
	}
	require.NoError(t, s.CreateLesson(lesson))
	return lesson
}

func seedStandaloneQuiz(t *testing.T, s *SqlService, grade, month string, questions []model.Question) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		ID:              uuid.New().String(),
		Title:           "Exam " + uuid.New().String()[:6],
		Grade:           grade,
		Month:           month,
		Questions:       mustJSON(t, questions),
		ExamDuration:    45,
		IsComprehensive: true,
		IsActive:        true,
	}
	require.NoError(t, s.CreateQuiz(quiz))
	return quiz
}

func sampleQuestions() []model.Question {
	return []model.Question{
		{Prompt: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{Prompt: "Capital of Egypt?", Options: []string{"Cairo", "Giza"}, CorrectAnswer: "Cairo"},
		{Prompt: "H2O is?", Options: []string{"Water", "Salt"}, CorrectAnswer: "Water"},
		{Prompt: "3 * 3?", Options: []string{"6", "9"}, CorrectAnswer: "9"},
	}
}
