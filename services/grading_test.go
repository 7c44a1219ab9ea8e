package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)
	submission := createSubmission(t, db, assignment.ID, user.ID)

	graded, err := svc.GradeSubmission(GradeInput{
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		Grade:        85,
		Feedback:     "Solid work",
	})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 85.0, *graded.Grade)
	assert.Equal(t, "Solid work", graded.Feedback)
}

func TestGradeSubmissionAcceptsRangeBoundaries(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)

	zero := createSubmission(t, db, assignment.ID, user.ID)
	_, err := svc.GradeSubmission(GradeInput{SubmissionID: zero.ID, AssignmentID: assignment.ID, Grade: 0})
	assert.NoError(t, err)

	full := createSubmission(t, db, assignment.ID, createUser(t, db, "asha").ID)
	_, err = svc.GradeSubmission(GradeInput{SubmissionID: full.ID, AssignmentID: assignment.ID, Grade: 100})
	assert.NoError(t, err)
}

func TestGradeSubmissionRejectsOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)
	submission := createSubmission(t, db, assignment.ID, user.ID)

	_, err := svc.GradeSubmission(GradeInput{SubmissionID: submission.ID, AssignmentID: assignment.ID, Grade: 100.01})
	assert.True(t, IsValidation(err))

	_, err = svc.GradeSubmission(GradeInput{SubmissionID: submission.ID, AssignmentID: assignment.ID, Grade: -1})
	assert.True(t, IsValidation(err))

	// The failed attempts left the submission untouched
	refreshed, err := svc.GetSubmissionForGrading(submission.ID)
	require.NoError(t, err)
	assert.Nil(t, refreshed.Grade)
	assert.Empty(t, refreshed.Feedback)
}

func TestGradeSubmissionRangeFollowsAssignmentMaxScore(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 20)
	submission := createSubmission(t, db, assignment.ID, user.ID)

	_, err := svc.GradeSubmission(GradeInput{SubmissionID: submission.ID, AssignmentID: assignment.ID, Grade: 20})
	assert.NoError(t, err)

	_, err = svc.GradeSubmission(GradeInput{SubmissionID: submission.ID, AssignmentID: assignment.ID, Grade: 21})
	assert.True(t, IsValidation(err))
}

func TestGradeSubmissionFeedbackLengthCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)
	submission := createSubmission(t, db, assignment.ID, user.ID)

	_, err := svc.GradeSubmission(GradeInput{
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		Grade:        50,
		Feedback:     strings.Repeat("a", 1000),
	})
	assert.NoError(t, err)

	_, err = svc.GradeSubmission(GradeInput{
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		Grade:        50,
		Feedback:     strings.Repeat("a", 1001),
	})
	assert.True(t, IsValidation(err))
}

func TestGradeSubmissionCollectsAllViolations(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())

	_, err := svc.GradeSubmission(GradeInput{
		SubmissionID: 1,
		AssignmentID: 999,
		Grade:        50,
		Feedback:     strings.Repeat("a", 1001),
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}

func TestGradeSubmissionAllowsRegrade(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)
	submission := createSubmission(t, db, assignment.ID, user.ID)

	_, err := svc.GradeSubmission(GradeInput{SubmissionID: submission.ID, AssignmentID: assignment.ID, Grade: 60, Feedback: "First pass"})
	require.NoError(t, err)

	regraded, err := svc.GradeSubmission(GradeInput{SubmissionID: submission.ID, AssignmentID: assignment.ID, Grade: 75, Feedback: "After appeal"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, *regraded.Grade)
	assert.Equal(t, "After appeal", regraded.Feedback)
}

func TestGradeSubmissionNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)

	_, err := svc.GradeSubmission(GradeInput{SubmissionID: 999, AssignmentID: assignment.ID, Grade: 50})
	assert.True(t, IsNotFound(err))
}

func TestGetSubmissionsByAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewGradingService(db, testConfig())
	ravi := createUser(t, db, "ravi")
	asha := createUser(t, db, "asha")
	course := createCourse(t, db, "Go Basics", nil)
	assignment := createAssignment(t, db, course.ID, 100)
	createSubmission(t, db, assignment.ID, ravi.ID)
	createSubmission(t, db, assignment.ID, asha.ID)

	items, err := svc.GetSubmissionsByAssignment(assignment.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "Assignment", item.AssignmentTitle)
		assert.Equal(t, 100.0, item.MaxScore)
		assert.Nil(t, item.Grade)
	}

	_, err = svc.GetSubmissionsByAssignment(999)
	assert.True(t, IsNotFound(err))
}
