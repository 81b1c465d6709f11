package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Question is the shared question shape embedded (as JSON) in lessons
// and standalone quizzes. It is not a table of its own.
type Question struct {
	Prompt        string   `json:"question"`
	Image         string   `json:"questionImage,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Lesson is a published lecture: a video, an optional embedded question
// set, an optional PDF attachment and an optional external quiz link.
type Lesson struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title" gorm:"not null"`
	Grade        string          `json:"grade" gorm:"not null;index:idx_lesson_grade_month"`
	Branch       string          `json:"branch"`
	Month        string          `json:"month" gorm:"not null;index:idx_lesson_grade_month"`
	VideoURL     string          `json:"video_url"`
	Description  string          `json:"description" gorm:"type:text"`
	Questions    json.RawMessage `json:"quiz" gorm:"type:text"` // embedded question set
	ExamDuration int             `json:"exam_duration" gorm:"default:30"` // minutes
	PDFURL       string          `json:"pdf_url"`
	PDFTitle     string          `json:"pdf_title"`
	QuizLink     string          `json:"quiz_link"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HasVideo reports whether the lesson carries playable video content.
func (l *Lesson) HasVideo() bool {
	return strings.TrimSpace(l.VideoURL) != ""
}

// QuestionSet decodes the embedded question set, if any.
func (l *Lesson) QuestionSet() ([]Question, error) {
	return decodeQuestions(l.Questions)
}

// Quiz is a standalone (usually comprehensive) exam not embedded in a lesson.
type Quiz struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	Title           string          `json:"title" gorm:"not null"`
	Grade           string          `json:"grade" gorm:"not null;index:idx_quiz_grade_month"`
	Month           string          `json:"month" gorm:"not null;index:idx_quiz_grade_month"`
	Branch          string          `json:"branch"`
	Questions       json.RawMessage `json:"questions" gorm:"type:text;not null"`
	ExamDuration    int             `json:"exam_duration" gorm:"default:30"`
	LessonID        *string         `json:"lesson_id"`
	IsComprehensive bool            `json:"is_comprehensive" gorm:"default:false"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (q *Quiz) QuestionSet() ([]Question, error) {
	return decodeQuestions(q.Questions)
}

func decodeQuestions(raw json.RawMessage) ([]Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SourceKind tags where a quiz's questions live.
type SourceKind string

const (
	SourceLesson SourceKind = "lesson"
	SourceQuiz   SourceKind = "quiz"
)

// QuizSource is the resolved question source for grading and review:
// either a lesson's embedded set or a standalone quiz. Resolution happens
// once; everything downstream switches on Kind instead of re-querying.
type QuizSource struct {
	Kind         SourceKind
	ID           string
	Title        string
	Questions    []Question
	ExamDuration int
}

// RecordRefs returns the (quizId, lessonId) pair for a score record;
// exactly one is non-nil.
func (s *QuizSource) RecordRefs() (quizID, lessonID *string) {
	if s.Kind == SourceLesson {
		return nil, &s.ID
	}
	return &s.ID, nil
}
