package services

import (
	stdContext "context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

// AdminService is the content-management and reporting surface: lesson
// and quiz publishing, PDF attachments, access code generation, student
// reports and suspension control.
type AdminService struct {
	context.DefaultService

	sqlSvc     *SqlService
	redisSvc   *RedisService
	storageSvc *StorageService
}

const ADMIN_SVC = "admin_svc"

const (
	codeCharset    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeSuffixLen  = 8
	statsCacheKey  = "admin:stats"
	statsCacheTTL  = 30 * time.Second
	defaultExamMin = 30
)

func (svc AdminService) Id() string {
	return ADMIN_SVC
}

func (svc *AdminService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	return nil
}

// AddLesson publishes a lecture, optionally with an embedded question set.
func (svc *AdminService) AddLesson(req dto.AddLessonRequest) (*model.Lesson, error) {
	questions := normalizeQuestions(req.Title, req.Quiz)

	var rawQuestions json.RawMessage
	if len(questions) > 0 {
		raw, err := json.Marshal(questions)
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to encode question set")
		}
		rawQuestions = raw
	}

	examDuration := req.ExamDuration
	if examDuration <= 0 {
		examDuration = defaultExamMin
	}

	lesson := &model.Lesson{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(req.Title),
		Grade:        req.Grade,
		Branch:       req.Branch,
		Month:        req.Month,
		VideoURL:     strings.TrimSpace(req.VideoURL),
		Description:  req.Description,
		Questions:    rawQuestions,
		ExamDuration: examDuration,
	}

	if err := svc.sqlSvc.CreateLesson(lesson); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateStats()
	return lesson, nil
}

// AddPDF attaches a file to an existing lesson, or publishes the file as
// a standalone external-file entry when no lesson is named.
func (svc *AdminService) AddPDF(req dto.AddPDFRequest) (*model.Lesson, error) {
	if req.LessonID != "" {
		if err := svc.sqlSvc.SetLessonPDF(req.LessonID, req.URL, req.Title); err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		return svc.sqlSvc.GetLesson(req.LessonID)
	}

	if req.Grade == "" || req.Month == "" {
		return nil, shared.NewBadRequestError(nil, "Grade and month are required for a standalone file")
	}

	lesson := &model.Lesson{
		ID:       uuid.New().String(),
		Title:    strings.TrimSpace(req.Title),
		Grade:    req.Grade,
		Branch:   shared.BranchExternalFile,
		Month:    req.Month,
		PDFURL:   req.URL,
		PDFTitle: strings.TrimSpace(req.Title),
	}

	if err := svc.sqlSvc.CreateLesson(lesson); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateStats()
	return lesson, nil
}

// UploadPDF streams a file into object storage and returns the public
// URL to feed back through AddPDF.
func (svc *AdminService) UploadPDF(fileName string, reader io.Reader, size int64) (*dto.PDFUploadResponse, error) {
	objectName := fmt.Sprintf("pdfs/%s-%s", uuid.New().String(), sanitizeFileName(fileName))

	if _, err := svc.storageSvc.UploadFile(objectName, reader, size, "application/pdf"); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file")
	}

	return &dto.PDFUploadResponse{
		URL:  svc.storageSvc.PublicURL(objectName),
		Name: fileName,
		Size: size,
	}, nil
}

// AddQuiz attaches a question set to an existing lesson, or publishes a
// standalone comprehensive quiz.
func (svc *AdminService) AddQuiz(req dto.AddQuizRequest) (interface{}, error) {
	questions := normalizeQuestions(req.Title, req.Quiz)
	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode question set")
	}

	examDuration := req.ExamDuration
	if examDuration <= 0 {
		examDuration = defaultExamMin
	}

	if req.LessonID != "" {
		if err := svc.sqlSvc.SetLessonQuestions(req.LessonID, raw, examDuration); err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		return svc.sqlSvc.GetLesson(req.LessonID)
	}

	if req.Grade == "" || req.Month == "" {
		return nil, shared.NewBadRequestError(nil, "Grade and month are required for a standalone quiz")
	}

	quiz := &model.Quiz{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(req.Title),
		Grade:           req.Grade,
		Month:           req.Month,
		Branch:          shared.BranchComprehensive,
		Questions:       raw,
		ExamDuration:    examDuration,
		IsComprehensive: true,
		IsActive:        true,
	}

	if err := svc.sqlSvc.CreateQuiz(quiz); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	return quiz, nil
}

// normalizeQuestions trims the fields grading compares on. Questions
// arriving without a correct answer are kept but logged; they can never
// score.
func normalizeQuestions(title string, inputs []dto.QuestionInput) []model.Question {
	if len(inputs) == 0 {
		return nil
	}

	questions := make([]model.Question, len(inputs))
	for i, input := range inputs {
		questions[i] = model.Question{
			Prompt:        strings.TrimSpace(input.Question),
			Image:         strings.TrimSpace(input.QuestionImage),
			Options:       input.Options,
			CorrectAnswer: strings.TrimSpace(input.CorrectAnswer),
			Explanation:   input.Explanation,
		}
		if questions[i].CorrectAnswer == "" {
			log.WithFields(log.Fields{
				"title":    title,
				"question": i,
			}).Warn("Question published without a correct answer")
		}
	}
	return questions
}

// GenerateCodes mints single-use access codes for a grade and month.
func (svc *AdminService) GenerateCodes(req dto.GenerateCodesRequest) (*dto.GenerateCodesResponse, error) {
	codes := make([]model.RedemptionCode, req.Count)
	generated := make([]string, req.Count)

	for i := 0; i < req.Count; i++ {
		suffix, err := randomCodeSuffix()
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to generate codes")
		}
		code := shared.CodePrefix + suffix

		codes[i] = model.RedemptionCode{
			ID:     uuid.New().String(),
			Code:   code,
			Month:  req.Month,
			Grade:  req.Grade,
			Branch: req.Branch,
		}
		generated[i] = code
	}

	if err := svc.sqlSvc.CreateCodes(codes); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateStats()
	return &dto.GenerateCodesResponse{GeneratedCodes: generated}, nil
}

func randomCodeSuffix() (string, error) {
	var b strings.Builder
	for i := 0; i < codeSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		b.WriteByte(codeCharset[n.Int64()])
	}
	return b.String(), nil
}

// Stats returns headline counts for the dashboard, cached briefly so a
// refresh-happy admin does not hammer the counts.
func (svc *AdminService) Stats() (*dto.StatsResponse, error) {
	if cached, err := svc.redisSvc.Get(stdContext.Background(), statsCacheKey); err == nil && cached != "" {
		var stats dto.StatsResponse
		if err := sonic.UnmarshalString(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	totalStudents, err := svc.sqlSvc.CountStudents()
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	totalLessons, err := svc.sqlSvc.CountLessons()
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	available, err := svc.sqlSvc.CountCodes(false)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	used, err := svc.sqlSvc.CountCodes(true)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	stats := &dto.StatsResponse{
		TotalStudents:  totalStudents,
		TotalLessons:   totalLessons,
		AvailableCodes: available,
		UsedCodes:      used,
	}

	if encoded, err := sonic.MarshalString(stats); err == nil {
		if err := svc.redisSvc.Set(stdContext.Background(), statsCacheKey, encoded, statsCacheTTL); err != nil {
			log.WithError(err).Warn("Stats cache write failed")
		}
	}

	return stats, nil
}

func (svc *AdminService) invalidateStats() {
	if err := svc.redisSvc.Delete(stdContext.Background(), statsCacheKey); err != nil {
		log.WithError(err).Warn("Stats cache invalidation failed")
	}
}

// StudentsReport lists every student account with its full score history
// and the grade of the most recent attempt.
func (svc *AdminService) StudentsReport() ([]dto.StudentReport, error) {
	students, err := svc.sqlSvc.ListStudents()
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	report := make([]dto.StudentReport, len(students))
	for i, student := range students {
		scores, err := svc.sqlSvc.GetScores(student.ID)
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}

		report[i] = dto.StudentReport{
			ID:          student.ID,
			Name:        student.Name,
			Phone:       student.Phone,
			ParentPhone: student.ParentPhone,
			Grade:       student.Grade,
			IsSuspended: student.IsSuspended,
			Scores:      scores,
			LastGrade:   latestGrade(scores),
		}
	}

	return report, nil
}

// latestGrade parses the percentage of the most recent attempt; the
// history is ordered oldest first.
func latestGrade(scores []model.ScoreRecord) float64 {
	if len(scores) == 0 {
		return 0
	}
	grade, err := strconv.ParseFloat(scores[len(scores)-1].Percentage, 64)
	if err != nil {
		return 0
	}
	return grade
}

// ToggleSuspension flips a student's suspension flag. The reason is
// cleared on reinstatement.
func (svc *AdminService) ToggleSuspension(userID string, req dto.SuspensionRequest) (*model.User, error) {
	reason := req.Reason
	if !req.IsSuspended {
		reason = ""
	}

	user, err := svc.sqlSvc.SetSuspension(userID, req.IsSuspended, reason)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return user, nil
}

// LessonsByMonth feeds the admin lesson picker.
func (svc *AdminService) LessonsByMonth(month, grade string) ([]dto.LessonListItem, error) {
	lessons, err := svc.sqlSvc.GetLessonsByMonth(month, grade)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	items := make([]dto.LessonListItem, len(lessons))
	for i, lesson := range lessons {
		items[i] = dto.LessonListItem{
			ID:     lesson.ID,
			Title:  lesson.Title,
			Branch: lesson.Branch,
			Month:  lesson.Month,
		}
	}
	return items, nil
}

// QuizzesByGrade feeds the admin quiz picker: standalone quizzes plus
// lesson-embedded question sets, labelled by origin.
func (svc *AdminService) QuizzesByGrade(grade string) ([]dto.QuizListItem, error) {
	quizzes, err := svc.sqlSvc.GetQuizzesByGrade(grade)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	lessons, err := svc.sqlSvc.GetLessonsByGrade(grade)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	items := make([]dto.QuizListItem, 0, len(quizzes)+len(lessons))
	for _, quiz := range quizzes {
		items = append(items, dto.QuizListItem{
			ID:    quiz.ID,
			Title: "(comprehensive) " + quiz.Title,
			Month: quiz.Month,
			Type:  "standalone",
		})
	}
	for _, lesson := range lessons {
		if len(lesson.Questions) == 0 {
			continue
		}
		items = append(items, dto.QuizListItem{
			ID:    lesson.ID,
			Title: "(lecture) " + lesson.Title,
			Month: lesson.Month,
			Type:  "lesson",
		})
	}
	return items, nil
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name
}
