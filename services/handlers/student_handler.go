package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/shared"
)

type StudentHandler struct {
	studentSvc StudentServiceInterface
	quizSvc    QuizServiceInterface
	guardSvc   SessionGuardInterface
}

func NewStudentHandler(studentSvc StudentServiceInterface, quizSvc QuizServiceInterface, guardSvc SessionGuardInterface) *StudentHandler {
	return &StudentHandler{
		studentSvc: studentSvc,
		quizSvc:    quizSvc,
		guardSvc:   guardSvc,
	}
}

// @Summary Redeem an access code
// @Description Claim a single-use code for the student's grade and grant a month of content
// @Tags student
// @Accept json
// @Produce json
// @Param activateRequest body dto.ActivateCodeRequest true "Code and student id"
// @Success 200 {object} shared.Response{data=dto.ActivateCodeResponse}
// @Router /api/v1/student/activate-code [post]
func (h *StudentHandler) ActivateCode(c *fiber.Ctx) error {
	var req dto.ActivateCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.studentSvc.ActivateCode(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Code activated successfully", resp)
}

// @Summary My lessons
// @Description Content the student is currently entitled to, partitioned into lessons and quizzes, plus full score history
// @Tags student
// @Produce json
// @Param studentId path string true "Student id"
// @Success 200 {object} shared.Response{data=dto.MyLessonsResponse}
// @Router /api/v1/student/my-lessons/{studentId} [get]
func (h *StudentHandler) MyLessons(c *fiber.Ctx) error {
	resp, err := h.studentSvc.GetMyLessons(c.Params("studentId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Submit a quiz attempt
// @Description Grade the submitted answers; each quiz can be attempted once
// @Tags student
// @Accept json
// @Produce json
// @Param submitRequest body dto.SubmitQuizRequest true "Student id, quiz id and answers"
// @Success 200 {object} shared.Response{data=dto.SubmitQuizResponse}
// @Router /api/v1/student/submit-quiz [post]
func (h *StudentHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.quizSvc.SubmitQuiz(req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Quiz review
// @Description Questions with correct answers and explanations, for the post-attempt review screen
// @Tags student
// @Produce json
// @Param quizId path string true "Quiz or lesson id"
// @Success 200 {object} shared.Response{data=dto.QuizDetailsResponse}
// @Router /api/v1/student/quiz-details/{quizId} [get]
func (h *StudentHandler) QuizDetails(c *fiber.Ctx) error {
	resp, err := h.quizSvc.QuizDetails(c.Params("quizId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Verify session
// @Description Poll endpoint the client uses to detect kicked-out and suspended states
// @Tags student
// @Produce json
// @Param studentId path string true "Student id"
// @Param sessionId path string true "Session token"
// @Success 200 {object} shared.Response{data=dto.VerifySessionResponse}
// @Router /api/v1/student/verify-session/{studentId}/{sessionId} [get]
func (h *StudentHandler) VerifySession(c *fiber.Ctx) error {
	resp, err := h.guardSvc.VerifySession(c.Params("studentId"), c.Params("sessionId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
