package dto

import "github.com/qalam-academy/tutor_api/model"

// ==================== ADMIN REQUEST DTOs ====================

type QuestionInput struct {
	Question      string   `json:"question"`
	QuestionImage string   `json:"questionImage"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type AddLessonRequest struct {
	Title        string          `json:"title" validate:"required"`
	VideoURL     string          `json:"videoUrl"`
	Grade        string          `json:"grade" validate:"required,grade"`
	Branch       string          `json:"branch" validate:"required"`
	Month        string          `json:"month" validate:"required"`
	Description  string          `json:"description"`
	Quiz         []QuestionInput `json:"quiz"`
	ExamDuration int             `json:"examDuration"`
}

func (a AddLessonRequest) Validate() error {
	return GetValidator().Struct(a)
}

// AddPDFRequest attaches a PDF to an existing lesson, or publishes a
// standalone file when LessonID is empty.
type AddPDFRequest struct {
	Title    string `json:"title" validate:"required"`
	Month    string `json:"month"`
	Grade    string `json:"grade"`
	LessonID string `json:"lessonId"`
	URL      string `json:"url" validate:"required"`
}

func (a AddPDFRequest) Validate() error {
	return GetValidator().Struct(a)
}

// AddQuizRequest attaches a question set to a lesson, or publishes a
// standalone comprehensive quiz when LessonID is empty.
type AddQuizRequest struct {
	LessonID     string          `json:"lessonId"`
	Title        string          `json:"title" validate:"required"`
	Grade        string          `json:"grade"`
	Month        string          `json:"month"`
	Quiz         []QuestionInput `json:"quiz" validate:"required,min=1"`
	ExamDuration int             `json:"examDuration"`
}

func (a AddQuizRequest) Validate() error {
	return GetValidator().Struct(a)
}

type GenerateCodesRequest struct {
	Month  string `json:"month" validate:"required"`
	Grade  string `json:"grade" validate:"required,grade"`
	Branch string `json:"branch"`
	Count  int    `json:"count" validate:"required,gt=0,max=1000"`
}

func (g GenerateCodesRequest) Validate() error {
	return GetValidator().Struct(g)
}

type SuspensionRequest struct {
	IsSuspended bool   `json:"isSuspended"`
	Reason      string `json:"reason"`
}

// ==================== ADMIN RESPONSE DTOs ====================

type GenerateCodesResponse struct {
	GeneratedCodes []string `json:"generatedCodes"`
}

type StatsResponse struct {
	TotalStudents  int64 `json:"totalStudents"`
	TotalLessons   int64 `json:"totalLessons"`
	AvailableCodes int64 `json:"availableCodes"`
	UsedCodes      int64 `json:"usedCodes"`
}

type StudentReport struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	ParentPhone string              `json:"parentPhone"`
	Grade       string              `json:"grade"`
	IsSuspended bool                `json:"isSuspended"`
	Scores      []model.ScoreRecord `json:"scores"`
	LastGrade   float64             `json:"lastGrade"`
}

// QuizListItem feeds admin dropdowns combining standalone and
// lesson-embedded quizzes.
type QuizListItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Month string `json:"month"`
	Type  string `json:"type"` // standalone | lesson
}

type LessonListItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Branch string `json:"branch"`
	Month  string `json:"month"`
}

type PDFUploadResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}
