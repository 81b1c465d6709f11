package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/shared"
)

type AdminHandler struct {
	adminSvc AdminServiceInterface
}

func NewAdminHandler(adminSvc AdminServiceInterface) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// @Summary Publish a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonRequest body dto.AddLessonRequest true "Lesson details"
// @Success 201 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/admin/lessons [post]
func (h *AdminHandler) AddLesson(c *fiber.Ctx) error {
	var req dto.AddLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.adminSvc.AddLesson(req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, "Lesson added successfully", lesson)
}

// @Summary Attach or publish a PDF
// @Description Attach a file to an existing lesson, or publish it standalone when no lesson id is given
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param pdfRequest body dto.AddPDFRequest true "PDF details"
// @Success 201 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/admin/pdfs [post]
func (h *AdminHandler) AddPDF(c *fiber.Ctx) error {
	var req dto.AddPDFRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.adminSvc.AddPDF(req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, "PDF added successfully", lesson)
}

// @Summary Upload a PDF file
// @Description Multipart upload into object storage; returns the URL to use with the pdfs endpoint
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "PDF file"
// @Success 200 {object} shared.Response{data=dto.PDFUploadResponse}
// @Router /api/v1/admin/pdfs/upload [post]
func (h *AdminHandler) UploadPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "Missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "Unreadable file")
	}
	defer file.Close()

	resp, err := h.adminSvc.UploadPDF(fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "File uploaded successfully", resp)
}

// @Summary Publish a quiz
// @Description Attach a question set to a lesson, or publish a standalone comprehensive quiz
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param quizRequest body dto.AddQuizRequest true "Quiz details"
// @Success 201 {object} shared.Response{data=interface{}}
// @Router /api/v1/admin/quizzes [post]
func (h *AdminHandler) AddQuiz(c *fiber.Ctx) error {
	var req dto.AddQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	quiz, err := h.adminSvc.AddQuiz(req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, "Quiz added successfully", quiz)
}

// @Summary Generate access codes
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param codesRequest body dto.GenerateCodesRequest true "Month, grade and count"
// @Success 201 {object} shared.Response{data=dto.GenerateCodesResponse}
// @Router /api/v1/admin/codes/generate [post]
func (h *AdminHandler) GenerateCodes(c *fiber.Ctx) error {
	var req dto.GenerateCodesRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.GenerateCodes(req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, "Codes generated successfully", resp)
}

// @Summary Dashboard stats
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.StatsResponse}
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	resp, err := h.adminSvc.Stats()
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Students report
// @Description Every student with full score history and latest grade
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.StudentReport}
// @Router /api/v1/admin/students-report [get]
func (h *AdminHandler) StudentsReport(c *fiber.Ctx) error {
	resp, err := h.adminSvc.StudentsReport()
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Suspend or reinstate a student
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Student id"
// @Param suspensionRequest body dto.SuspensionRequest true "Suspension flag and reason"
// @Success 200 {object} shared.Response{data=model.User}
// @Router /api/v1/admin/students/{id}/suspension [put]
func (h *AdminHandler) ToggleSuspension(c *fiber.Ctx) error {
	var req dto.SuspensionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	user, err := h.adminSvc.ToggleSuspension(c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Suspension updated successfully", user)
}

// @Summary Lessons by month
// @Tags admin
// @Produce json
// @Security Bearer
// @Param month query string true "Month"
// @Param grade query string true "Grade"
// @Success 200 {object} shared.Response{data=[]dto.LessonListItem}
// @Router /api/v1/admin/lessons-by-month [get]
func (h *AdminHandler) LessonsByMonth(c *fiber.Ctx) error {
	resp, err := h.adminSvc.LessonsByMonth(c.Query("month"), c.Query("grade"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Quizzes by grade
// @Description Standalone and lesson-embedded quizzes, labelled by origin
// @Tags admin
// @Produce json
// @Security Bearer
// @Param grade query string true "Grade"
// @Success 200 {object} shared.Response{data=[]dto.QuizListItem}
// @Router /api/v1/admin/quizzes-by-grade [get]
func (h *AdminHandler) QuizzesByGrade(c *fiber.Ctx) error {
	resp, err := h.adminSvc.QuizzesByGrade(c.Query("grade"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
