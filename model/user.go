package model

import (
	"encoding/json"
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Grades is the fixed grade enumeration used across accounts, codes and content.
var Grades = []string{"1-prep", "2-prep", "3-prep", "1-sec", "2-sec", "3-sec"}

func IsValidGrade(grade string) bool {
	for _, g := range Grades {
		if g == grade {
			return true
		}
	}
	return false
}

type User struct {
	ID               string `json:"id" gorm:"primaryKey"`
	Name             string `json:"name" gorm:"not null"`
	Phone            string `json:"phone" gorm:"uniqueIndex;not null"`
	ParentPhone      string `json:"parent_phone"`
	Password         string `json:"-" gorm:"not null"`
	Grade            string `json:"grade" gorm:"not null"`
	Role             string `json:"role" gorm:"default:student"`
	IsSuspended      bool   `json:"is_suspended" gorm:"default:false;index"`
	SuspensionReason string `json:"suspension_reason"`

	// CurrentSessionID holds the single valid session token. It changes
	// only on a successful login, never anywhere else.
	CurrentSessionID *string   `json:"-" gorm:"index"`
	LastLogin        time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription is a content grant won by redeeming a code. Duplicates for
// the same month/branch are allowed; each redemption stays auditable.
type Subscription struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	Month       string    `json:"month" gorm:"not null"`
	Branch      string    `json:"branch"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expiry_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScoreRecord is one graded attempt. Exactly one of QuizID/LessonID is set,
// matching the resolved question source. SourceID duplicates that value so a
// single unique index can enforce at most one attempt per (user, source)
// even under concurrent submissions.
type ScoreRecord struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	UserID     string          `json:"user_id" gorm:"not null;uniqueIndex:idx_score_user_source"`
	SourceID   string          `json:"-" gorm:"not null;uniqueIndex:idx_score_user_source"`
	QuizID     *string         `json:"quizId"`
	LessonID   *string         `json:"lessonId"`
	QuizTitle  string          `json:"quizTitle"`
	Score      int             `json:"score"`
	Total      int             `json:"total"`
	Percentage string          `json:"percentage"`               // formatted to one decimal place
	Answers    json.RawMessage `json:"answers" gorm:"type:text"` // submitted answers, original order
	TakenAt    time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SubmittedAnswers decodes the stored answer list.
func (s *ScoreRecord) SubmittedAnswers() ([]string, error) {
	var answers []string
	if len(s.Answers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
