package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type StudentServiceInterface interface {
	ActivateCode(req dto.ActivateCodeRequest) (*dto.ActivateCodeResponse, error)
	GetMyLessons(studentID string) (*dto.MyLessonsResponse, error)
}

type QuizServiceInterface interface {
	SubmitQuiz(req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	QuizDetails(quizID string) (*dto.QuizDetailsResponse, error)
}

type SessionGuardInterface interface {
	VerifySession(studentID, sessionToken string) (*dto.VerifySessionResponse, error)
	StudentGuard() fiber.Handler
}

type AdminServiceInterface interface {
	AddLesson(req dto.AddLessonRequest) (*model.Lesson, error)
	AddPDF(req dto.AddPDFRequest) (*model.Lesson, error)
	UploadPDF(fileName string, reader io.Reader, size int64) (*dto.PDFUploadResponse, error)
	AddQuiz(req dto.AddQuizRequest) (interface{}, error)
	GenerateCodes(req dto.GenerateCodesRequest) (*dto.GenerateCodesResponse, error)
	Stats() (*dto.StatsResponse, error)
	StudentsReport() ([]dto.StudentReport, error)
	ToggleSuspension(userID string, req dto.SuspensionRequest) (*model.User, error)
	LessonsByMonth(month, grade string) ([]dto.LessonListItem, error)
	QuizzesByGrade(grade string) ([]dto.QuizListItem, error)
}
