package dto

import "github.com/qalam-academy/tutor_api/model"

// ==================== STUDENT REQUEST DTOs ====================

type ActivateCodeRequest struct {
	Code      string `json:"code" validate:"required" example:"MRW-AB12345"`
	StudentID string `json:"studentId" validate:"required"`
}

func (a ActivateCodeRequest) Validate() error {
	return GetValidator().Struct(a)
}

type SubmitQuizRequest struct {
	StudentID string   `json:"studentId" validate:"required"`
	QuizID    string   `json:"quizId" validate:"required"`
	Answers   []string `json:"answers"`
}

func (s SubmitQuizRequest) Validate() error {
	return GetValidator().Struct(s)
}

// ==================== STUDENT RESPONSE DTOs ====================

type ActivateCodeResponse struct {
	Month  string `json:"month"`
	Branch string `json:"branch"`
}

// ContentItem is a lesson or quiz entry in the entitlement listing,
// annotated with whether the student already has a graded attempt.
type ContentItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Grade         string `json:"grade"`
	Branch        string `json:"branch"`
	Month         string `json:"month"`
	VideoURL      string `json:"video_url,omitempty"`
	Description   string `json:"description,omitempty"`
	PDFURL        string `json:"pdf_url,omitempty"`
	PDFTitle      string `json:"pdf_title,omitempty"`
	QuizLink      string `json:"quiz_link,omitempty"`
	ExamDuration  int    `json:"exam_duration,omitempty"`
	QuestionCount int    `json:"question_count"`
	AlreadyTaken  bool   `json:"alreadyTaken"`
}

type MyLessonsResponse struct {
	Lessons     []ContentItem       `json:"lessons"`
	Quizzes     []ContentItem       `json:"quizzes"`
	Grade       string              `json:"grade,omitempty"`
	IsSuspended bool                `json:"isSuspended"`
	Results     []model.ScoreRecord `json:"results"`
	Message     string              `json:"message,omitempty"`
}

type SubmitQuizResponse struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage string `json:"percentage" example:"75.0"`
}

// ReviewQuestion strips a question down to what the post-submission
// review screen needs; options are deliberately omitted.
type ReviewQuestion struct {
	Question      string `json:"question"`
	QuestionImage string `json:"questionImage"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

type QuizDetailsResponse struct {
	Title     string           `json:"title"`
	Questions []ReviewQuestion `json:"questions"`
}
