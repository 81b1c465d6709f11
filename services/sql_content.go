package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

func (ds *SqlService) CreateLesson(lesson *model.Lesson) error {
	return ds.db.Create(lesson).Error
}

func (ds *SqlService) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *SqlService) SetLessonPDF(lessonID, url, title string) error {
	res := ds.db.Model(&model.Lesson{}).Where("id = ?", lessonID).Updates(map[string]interface{}{
		"pdf_url":    url,
		"pdf_title":  title,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ds *SqlService) SetLessonQuestions(lessonID string, questions json.RawMessage, examDuration int) error {
	res := ds.db.Model(&model.Lesson{}).Where("id = ?", lessonID).Updates(map[string]interface{}{
		"questions":     questions,
		"exam_duration": examDuration,
		"updated_at":    time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ds *SqlService) GetLessonsByGradeMonths(grade string, months []string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := ds.db.Where("grade = ? AND month IN ?", grade, months).
		Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (ds *SqlService) GetLessonsByMonth(month, grade string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := ds.db.Where("month = ? AND grade = ?", month, grade).
		Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (ds *SqlService) GetLessonsByGrade(grade string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := ds.db.Where("grade = ?", grade).Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (ds *SqlService) CountLessons() (int64, error) {
	var count int64
	err := ds.db.Model(&model.Lesson{}).Count(&count).Error
	return count, err
}

func (ds *SqlService) CreateQuiz(quiz *model.Quiz) error {
	return ds.db.Create(quiz).Error
}

func (ds *SqlService) GetQuiz(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := ds.db.Where("id = ?", id).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (ds *SqlService) GetQuizzesByGradeMonths(grade string, months []string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := ds.db.Where("grade = ? AND month IN ? AND is_active = ?", grade, months, true).
		Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (ds *SqlService) GetQuizzesByGrade(grade string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := ds.db.Where("grade = ?", grade).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

// ResolveQuizSource resolves a submitted identifier to its question
// source: a lesson with a non-empty embedded set wins, then a standalone
// quiz. Anything else is NotFound.
func (ds *SqlService) ResolveQuizSource(id string) (*model.QuizSource, error) {
	lesson, err := ds.GetLesson(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if lesson != nil {
		questions, qErr := lesson.QuestionSet()
		if qErr != nil {
			return nil, qErr
		}
		if len(questions) > 0 {
			return &model.QuizSource{
				Kind:         model.SourceLesson,
				ID:           lesson.ID,
				Title:        lesson.Title,
				Questions:    questions,
				ExamDuration: lesson.ExamDuration,
			}, nil
		}
	}

	quiz, err := ds.GetQuiz(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Quiz not found")
		}
		return nil, err
	}

	questions, err := quiz.QuestionSet()
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, shared.NewNotFoundError(gorm.ErrRecordNotFound, "Quiz not found")
	}

	return &model.QuizSource{
		Kind:         model.SourceQuiz,
		ID:           quiz.ID,
		Title:        quiz.Title,
		Questions:    questions,
		ExamDuration: quiz.ExamDuration,
	}, nil
}
