package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

// QuizService grades submissions against their resolved question source
// and serves the post-attempt review payload.
type QuizService struct {
	context.DefaultService

	sqlSvc *SqlService
}

const QUIZ_SVC = "quiz_svc"

func (svc QuizService) Id() string {
	return QUIZ_SVC
}

func (svc *QuizService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// SubmitQuiz grades a single attempt and records it. A second attempt
// against the same source is rejected; the stored history never changes
// after the first successful submission.
func (svc *QuizService) SubmitQuiz(req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	user, err := svc.sqlSvc.GetUser(req.StudentID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if user.IsSuspended {
		return nil, shared.NewSuspendedError(user.SuspensionReason)
	}

	source, err := svc.sqlSvc.ResolveQuizSource(req.QuizID)
	if err != nil {
		return nil, err
	}

	if taken, err := svc.sqlSvc.HasAttempt(user.ID, source.ID); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	} else if taken {
		quizSubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, shared.NewAlreadyAttemptedError()
	}

	score, total, percentage, retained, err := gradeSubmission(source.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	rawAnswers, err := json.Marshal(retained)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to record answers")
	}

	quizID, lessonID := source.RecordRefs()
	record := &model.ScoreRecord{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		SourceID:   source.ID,
		QuizID:     quizID,
		LessonID:   lessonID,
		QuizTitle:  source.Title,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Answers:    rawAnswers,
		TakenAt:    time.Now(),
	}

	// The unique (user, source) index closes the race two concurrent
	// submissions would otherwise slip through the HasAttempt check.
	if err := svc.sqlSvc.AppendScore(record); err != nil {
		quizSubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	quizSubmissionsTotal.WithLabelValues("graded").Inc()

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"source":  source.ID,
		"score":   score,
		"total":   total,
		"percent": percentage,
	}).Info("Quiz submission graded")

	return &dto.SubmitQuizResponse{
		Score:      score,
		Total:      total,
		Percentage: percentage,
	}, nil
}

// gradeSubmission scores answers positionally against the question set.
// Both sides are compared after trimming; the unanswered sentinel never
// scores. The retained list holds exactly one trimmed entry per question,
// defaulting to the sentinel where no answer was submitted.
func gradeSubmission(questions []model.Question, answers []string) (score, total int, percentage string, retained []string, err error) {
	total = len(questions)
	if total == 0 {
		return 0, 0, "", nil, shared.NewBadRequestError(nil, "Quiz has no questions")
	}

	retained = make([]string, total)
	for i, question := range questions {
		answer := shared.AnswerUnanswered
		if i < len(answers) {
			answer = strings.TrimSpace(answers[i])
		}
		retained[i] = answer

		if answer == "" || answer == shared.AnswerUnanswered {
			continue
		}
		if answer == strings.TrimSpace(question.CorrectAnswer) {
			score++
		}
	}

	percentage = fmt.Sprintf("%.1f", float64(score)/float64(total)*100)
	return score, total, percentage, retained, nil
}

// QuizDetails returns the review payload shown after an attempt: each
// question with its correct answer and explanation, no options.
func (svc *QuizService) QuizDetails(quizID string) (*dto.QuizDetailsResponse, error) {
	source, err := svc.sqlSvc.ResolveQuizSource(quizID)
	if err != nil {
		return nil, err
	}

	questions := make([]dto.ReviewQuestion, len(source.Questions))
	for i, q := range source.Questions {
		questions[i] = dto.ReviewQuestion{
			Question:      q.Prompt,
			QuestionImage: q.Image,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}

	return &dto.QuizDetailsResponse{
		Title:     source.Title,
		Questions: questions,
	}, nil
}
