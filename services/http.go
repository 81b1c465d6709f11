package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/services/handlers"
	"github.com/qalam-academy/tutor_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	guardSvc      *SessionGuardService
	studentSvc    *StudentService
	quizSvc       *QuizService
	adminSvc      *AdminService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.guardSvc = svc.Service(GUARD_SVC).(*SessionGuardService)
	svc.studentSvc = svc.Service(STUDENT_SVC).(*StudentService)
	svc.quizSvc = svc.Service(QUIZ_SVC).(*QuizService)
	svc.adminSvc = svc.Service(ADMIN_SVC).(*AdminService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, User-Id, Session-Id",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	studentHandler := handlers.NewStudentHandler(svc.studentSvc, svc.quizSvc, svc.guardSvc)
	student := v1.Group("/student", svc.guardSvc.StudentGuard())
	student.Post("/activate-code", studentHandler.ActivateCode)
	student.Get("/my-lessons/:studentId", studentHandler.MyLessons)
	student.Post("/submit-quiz", studentHandler.SubmitQuiz)
	student.Get("/quiz-details/:quizId", studentHandler.QuizDetails)
	student.Get("/verify-session/:studentId/:sessionId", studentHandler.VerifySession)

	adminHandler := handlers.NewAdminHandler(svc.adminSvc)
	admin := v1.Group("/admin", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(model.RoleAdmin))
	admin.Post("/lessons", adminHandler.AddLesson)
	admin.Post("/pdfs", adminHandler.AddPDF)
	admin.Post("/pdfs/upload", adminHandler.UploadPDF)
	admin.Post("/quizzes", adminHandler.AddQuiz)
	admin.Post("/codes/generate", adminHandler.GenerateCodes)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/students-report", adminHandler.StudentsReport)
	admin.Put("/students/:id/suspension", adminHandler.ToggleSuspension)
	admin.Get("/lessons-by-month", adminHandler.LessonsByMonth)
	admin.Get("/quizzes-by-grade", adminHandler.QuizzesByGrade)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Page not found")
	})

	svc.server = app

	log.Printf("HTTP server listening on :%v", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description Health check
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseOK(c, "pong")
}

// handleError is the terminal error translator: AppErrors render with
// their status and flags, fiber errors keep their status, anything else
// is a 500 with the detail kept out of the response body.
func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.WithError(appErr.Err).WithField("path", c.Path()).Error(appErr.Message)
		}
		return shared.ResponseError(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
	return shared.ResponseJSON(c, http.StatusInternalServerError, "Internal server error", nil)
}
