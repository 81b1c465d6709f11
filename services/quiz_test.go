package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qalam-academy/tutor_api/dto"
	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

func TestGradeSubmission_Scoring(t *testing.T) {
	score, total, percentage, retained, err := gradeSubmission(sampleQuestions(), []string{"4", "Cairo", "Salt", "9"})

	require.NoError(t, err)
	assert.Equal(t, 3, score)
	assert.Equal(t, 4, total)
	assert.Equal(t, "75.0", percentage)
	assert.Equal(t, []string{"4", "Cairo", "Salt", "9"}, retained)
}

func TestGradeSubmission_TrimsBothSides(t *testing.T) {
	questions := []model.Question{
		{Prompt: "2 + 2?", CorrectAnswer: "  4  "},
	}

	score, _, percentage, retained, err := gradeSubmission(questions, []string{"  4 "})

	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, "100.0", percentage)
	assert.Equal(t, []string{"4"}, retained)
}

func TestGradeSubmission_UnansweredNeverScores(t *testing.T) {
	questions := []model.Question{
		{Prompt: "q1", CorrectAnswer: "a"},
		// Even a pathological correct answer equal to the sentinel
		// cannot be matched by skipping the question.
		{Prompt: "q2", CorrectAnswer: shared.AnswerUnanswered},
		{Prompt: "q3", CorrectAnswer: "c"},
	}

	score, total, percentage, retained, err := gradeSubmission(questions, []string{"a", shared.AnswerUnanswered, ""})

	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, 3, total)
	assert.Equal(t, "33.3", percentage)
	assert.Equal(t, []string{"a", shared.AnswerUnanswered, ""}, retained)
}

func TestGradeSubmission_ShortAndLongAnswerLists(t *testing.T) {
	questions := sampleQuestions()

	// Fewer answers than questions: missing positions score zero and are
	// stored as the sentinel, one entry per question.
	score, total, _, retained, err := gradeSubmission(questions, []string{"4"})
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"4", shared.AnswerUnanswered, shared.AnswerUnanswered, shared.AnswerUnanswered}, retained)

	// Extra answers beyond the question count are dropped, not retained.
	score, _, _, retained, err = gradeSubmission(questions, []string{"4", "Cairo", "Water", "9", "bonus"})
	require.NoError(t, err)
	assert.Equal(t, 4, score)
	assert.Equal(t, []string{"4", "Cairo", "Water", "9"}, retained)
}

func TestGradeSubmission_EmptyQuestionSetRejected(t *testing.T) {
	_, _, _, _, err := gradeSubmission(nil, []string{"a"})

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}

func TestGradeSubmission_Deterministic(t *testing.T) {
	answers := []string{"4", "Cairo", "Salt", "9"}

	for i := 0; i < 5; i++ {
		score, total, percentage, _, err := gradeSubmission(sampleQuestions(), answers)
		require.NoError(t, err)
		assert.Equal(t, 3, score)
		assert.Equal(t, 4, total)
		assert.Equal(t, "75.0", percentage)
	}
}

func TestSubmitQuiz_RecordsAttempt(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	lesson := seedLessonWithQuiz(t, s, "1-sec", "september", sampleQuestions())

	resp, err := svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    lesson.ID,
		Answers:   []string{"4", "Cairo", "Salt", "9"},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Score)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, "75.0", resp.Percentage)

	scores, err := s.GetScores(user.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, lesson.Title, scores[0].QuizTitle)
	require.NotNil(t, scores[0].LessonID)
	assert.Equal(t, lesson.ID, *scores[0].LessonID)
	assert.Nil(t, scores[0].QuizID)

	answers, err := scores[0].SubmittedAnswers()
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "Cairo", "Salt", "9"}, answers)
}

func TestSubmitQuiz_PadsPartialSubmission(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	quiz := seedStandaloneQuiz(t, s, "1-sec", "september", sampleQuestions())

	_, err := svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    quiz.ID,
		Answers:   []string{"4"},
	})
	require.NoError(t, err)

	scores, err := s.GetScores(user.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)

	answers, err := scores[0].SubmittedAnswers()
	require.NoError(t, err)
	assert.Equal(t, []string{"4", shared.AnswerUnanswered, shared.AnswerUnanswered, shared.AnswerUnanswered}, answers)
}

func TestSubmitQuiz_SecondAttemptRejected(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	quiz := seedStandaloneQuiz(t, s, "1-sec", "september", sampleQuestions())

	first, err := svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    quiz.ID,
		Answers:   []string{"4", "Cairo", "Water", "9"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, first.Score)

	_, err = svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    quiz.ID,
		Answers:   []string{"3", "Giza", "Salt", "6"},
	})

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)

	// History is unchanged by the rejected attempt.
	scores, err := s.GetScores(user.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 4, scores[0].Score)
}

func TestSubmitQuiz_DuplicateGuardHoldsWithoutPrecheck(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}
	user := seedStudent(t, s, "2-sec")
	quiz := seedStandaloneQuiz(t, s, "2-sec", "october", sampleQuestions())

	_, err := svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    quiz.ID,
		Answers:   []string{"4", "Cairo", "Water", "9"},
	})
	require.NoError(t, err)

	// A second insert straight into the store, as a racing request that
	// passed the precheck would do, loses on the unique index.
	quizID := quiz.ID
	err = s.AppendScore(&model.ScoreRecord{
		ID:       "racing-record",
		UserID:   user.ID,
		SourceID: quiz.ID,
		QuizID:   &quizID,
		Score:    1,
		Total:    4,
	})

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
}

func TestSubmitQuiz_SuspendedStudentRejected(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")
	quiz := seedStandaloneQuiz(t, s, "1-sec", "september", sampleQuestions())

	_, err := s.SetSuspension(user.ID, true, "payment issue")
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    quiz.ID,
		Answers:   []string{"4"},
	})

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, true, appErr.Flags["isSuspended"])
}

func TestSubmitQuiz_UnknownSource(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}
	user := seedStudent(t, s, "1-sec")

	_, err := svc.SubmitQuiz(dto.SubmitQuizRequest{
		StudentID: user.ID,
		QuizID:    "missing",
		Answers:   []string{"a"},
	})

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestResolveQuizSource_LessonWinsOverQuiz(t *testing.T) {
	s := newTestSql(t)
	lesson := seedLessonWithQuiz(t, s, "1-sec", "september", sampleQuestions())

	source, err := s.ResolveQuizSource(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SourceLesson, source.Kind)
	assert.Len(t, source.Questions, 4)

	quizID, lessonID := source.RecordRefs()
	assert.Nil(t, quizID)
	require.NotNil(t, lessonID)
	assert.Equal(t, lesson.ID, *lessonID)
}

func TestResolveQuizSource_LessonWithoutQuestionsFallsThrough(t *testing.T) {
	s := newTestSql(t)

	lesson := &model.Lesson{ID: "video-only", Title: "No quiz here", Grade: "1-sec", Month: "september", VideoURL: "v"}
	require.NoError(t, s.CreateLesson(lesson))

	_, err := s.ResolveQuizSource(lesson.ID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestQuizDetails_ReviewPayload(t *testing.T) {
	s := newTestSql(t)
	svc := &QuizService{sqlSvc: s}

	questions := []model.Question{
		{Prompt: "q1", Image: "img.png", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "because"},
	}
	quiz := seedStandaloneQuiz(t, s, "3-sec", "november", questions)

	resp, err := svc.QuizDetails(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, resp.Title)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "q1", resp.Questions[0].Question)
	assert.Equal(t, "img.png", resp.Questions[0].QuestionImage)
	assert.Equal(t, "a", resp.Questions[0].CorrectAnswer)
	assert.Equal(t, "because", resp.Questions[0].Explanation)
}
