package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

// StudentService covers the student-facing portal surface: redeeming
// access codes and resolving which content a student is entitled to see.
type StudentService struct {
	context.DefaultService

	sqlSvc *SqlService
}

const STUDENT_SVC = "student_svc"

func (svc StudentService) Id() string {
	return STUDENT_SVC
}

func (svc *StudentService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// ActivateCode redeems an access code for the student's own grade and
// grants a month of content. The claim is exactly-once; a consumed or
// wrong-grade code reads as invalid.
func (svc *StudentService) ActivateCode(req dto.ActivateCodeRequest) (*dto.ActivateCodeResponse, error) {
	user, err := svc.sqlSvc.GetUser(req.StudentID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if user.IsSuspended {
		return nil, shared.NewSuspendedError(user.SuspensionReason)
	}

	now := time.Now()
	code, err := svc.sqlSvc.ClaimCode(req.Code, user.Grade, user.ID, now)
	if err != nil {
		codeRedemptionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	codeRedemptionsTotal.WithLabelValues("redeemed").Inc()

	sub := &model.Subscription{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Month:       code.Month,
		Branch:      code.Branch,
		ActivatedAt: now,
		ExpiresAt:   now.Add(shared.SubscriptionWindow),
	}
	if err := svc.sqlSvc.AddSubscription(sub); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"month":   code.Month,
		"branch":  code.Branch,
	}).Info("Access code redeemed")

	return &dto.ActivateCodeResponse{
		Month:  code.Month,
		Branch: code.Branch,
	}, nil
}

// GetMyLessons resolves the student's current entitlement: content for
// the distinct months covered by unexpired subscriptions, partitioned
// into watchable lessons and takeable quizzes, each flagged with whether
// an attempt already exists. Score history is always returned, even when
// the account is suspended or holds no active subscription.
func (svc *StudentService) GetMyLessons(studentID string) (*dto.MyLessonsResponse, error) {
	user, err := svc.sqlSvc.GetUser(studentID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	scores, err := svc.sqlSvc.GetScores(user.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.MyLessonsResponse{
		Lessons:     []dto.ContentItem{},
		Quizzes:     []dto.ContentItem{},
		Grade:       user.Grade,
		IsSuspended: user.IsSuspended,
		Results:     scores,
	}

	if user.IsSuspended {
		resp.Message = "Account suspended"
		return resp, nil
	}

	subs, err := svc.sqlSvc.GetSubscriptions(user.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	months := activeMonths(subs, time.Now())
	if len(months) == 0 {
		resp.Message = "No active subscription. Please redeem an access code."
		return resp, nil
	}

	lessons, err := svc.sqlSvc.GetLessonsByGradeMonths(user.Grade, months)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	quizzes, err := svc.sqlSvc.GetQuizzesByGradeMonths(user.Grade, months)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	takenIDs, takenTitles := attemptedSets(scores)
	taken := func(id, title string) bool {
		return takenIDs[id] || takenTitles[title]
	}

	for i := range lessons {
		lesson := &lessons[i]
		questions, qErr := lesson.QuestionSet()
		if qErr != nil {
			log.WithError(qErr).WithField("lesson_id", lesson.ID).Warn("Skipping malformed lesson question set")
		}

		if lesson.HasVideo() {
			resp.Lessons = append(resp.Lessons, dto.ContentItem{
				ID:           lesson.ID,
				Title:        lesson.Title,
				Grade:        lesson.Grade,
				Branch:       lesson.Branch,
				Month:        lesson.Month,
				VideoURL:     lesson.VideoURL,
				Description:  lesson.Description,
				PDFURL:       lesson.PDFURL,
				PDFTitle:     lesson.PDFTitle,
				QuizLink:     lesson.QuizLink,
				AlreadyTaken: taken(lesson.ID, lesson.Title),
			})
		}

		// A lesson without video but with an embedded question set is
		// surfaced as a quiz instead.
		if !lesson.HasVideo() && len(questions) > 0 {
			resp.Quizzes = append(resp.Quizzes, dto.ContentItem{
				ID:            lesson.ID,
				Title:         lesson.Title,
				Grade:         lesson.Grade,
				Branch:        lesson.Branch,
				Month:         lesson.Month,
				ExamDuration:  lesson.ExamDuration,
				QuestionCount: len(questions),
				AlreadyTaken:  taken(lesson.ID, lesson.Title),
			})
		}
	}

	for i := range quizzes {
		quiz := &quizzes[i]
		questions, qErr := quiz.QuestionSet()
		if qErr != nil {
			log.WithError(qErr).WithField("quiz_id", quiz.ID).Warn("Skipping malformed quiz question set")
			continue
		}

		resp.Quizzes = append(resp.Quizzes, dto.ContentItem{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Grade:         quiz.Grade,
			Branch:        quiz.Branch,
			Month:         quiz.Month,
			ExamDuration:  quiz.ExamDuration,
			QuestionCount: len(questions),
			AlreadyTaken:  taken(quiz.ID, quiz.Title),
		})
	}

	return resp, nil
}

// activeMonths collapses unexpired subscriptions to their distinct
// months, preserving activation order.
func activeMonths(subs []model.Subscription, now time.Time) []string {
	seen := map[string]bool{}
	var months []string
	for _, sub := range subs {
		if !sub.ExpiresAt.After(now) {
			continue
		}
		if seen[sub.Month] {
			continue
		}
		seen[sub.Month] = true
		months = append(months, sub.Month)
	}
	return months
}

// attemptedSets indexes the score history by source id and, for older
// records written before ids were stored, by quiz title.
func attemptedSets(scores []model.ScoreRecord) (ids map[string]bool, titles map[string]bool) {
	ids = map[string]bool{}
	titles = map[string]bool{}
	for _, record := range scores {
		if record.QuizID != nil {
			ids[*record.QuizID] = true
		}
		if record.LessonID != nil {
			ids[*record.LessonID] = true
		}
		if record.QuizTitle != "" {
			titles[record.QuizTitle] = true
		}
	}
	return ids, titles
}
