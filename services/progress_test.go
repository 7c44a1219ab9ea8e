package services

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCourseProgressHalfway(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	moduleOne := createModuleWithLessons(t, db, course.ID, 0, 2)
	moduleTwo := createModuleWithLessons(t, db, course.ID, 1, 2)

	// Complete both lessons of the first module
	for _, lesson := range moduleOne {
		require.NoError(t, db.Create(&courseModels.Progress{
			EnrollmentID: enrollment.ID,
			LessonID:     lesson.ID,
		}).Error)
	}

	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)

	assert.Equal(t, 50.0, progress.CompletionPercentage)
	assert.Equal(t, 4, progress.TotalLessons)
	assert.Equal(t, 2, progress.CompletedLessons)
	assert.Equal(t, "Go Basics", progress.CourseTitle)

	// Lessons come back in module order then lesson order, ticks first
	require.Len(t, progress.Lessons, 4)
	expectedOrder := []uint{moduleOne[0].ID, moduleOne[1].ID, moduleTwo[0].ID, moduleTwo[1].ID}
	for i, lesson := range progress.Lessons {
		assert.Equal(t, expectedOrder[i], lesson.LessonID)
	}
	assert.True(t, progress.Lessons[0].IsCompleted)
	assert.True(t, progress.Lessons[1].IsCompleted)
	assert.False(t, progress.Lessons[2].IsCompleted)
	assert.False(t, progress.Lessons[3].IsCompleted)

	// The computed percentage is written back onto the enrollment row
	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 50.0, stored.ProgressPercent)
}

func TestGetCourseProgressRoundsOnlyTheReportedValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	lessons := createModuleWithLessons(t, db, course.ID, 0, 3)
	require.NoError(t, db.Create(&courseModels.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
	}).Error)

	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)

	// 1/3 reports as 33, stores the raw value
	assert.Equal(t, 33.0, progress.CompletionPercentage)

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.InDelta(t, 100.0/3.0, stored.ProgressPercent, 1e-9)
}

func TestGetCourseProgressWithNoLessons(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Empty Course", nil)
	createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress.CompletionPercentage)
	assert.Equal(t, 0, progress.TotalLessons)
}

func TestGetCourseProgressWithoutEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "visitor")
	course := createCourse(t, db, "Go Basics", nil)
	createModuleWithLessons(t, db, course.ID, 0, 2)

	// No enrollment row: the view still computes, nothing is written back
	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress.CompletionPercentage)

	var count int64
	db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestGetCourseProgressCourseNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")

	_, err := svc.GetCourseProgress(user.ID, 999)
	assert.True(t, IsNotFound(err))
}

func TestGetCourseProgressAssignmentScores(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	graded := createAssignment(t, db, course.ID, 100)
	ungraded := createAssignment(t, db, course.ID, 100)

	gradedSub := createSubmission(t, db, graded.ID, user.ID)
	score := 85.0
	gradedSub.Grade = &score
	require.NoError(t, db.Save(&gradedSub).Error)
	createSubmission(t, db, ungraded.ID, user.ID)

	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, progress.Assignments, 2)

	scores := map[uint]string{}
	for _, a := range progress.Assignments {
		scores[a.AssignmentID] = a.Score
	}
	assert.Equal(t, "85", scores[graded.ID])
	assert.Equal(t, "Not graded", scores[ungraded.ID])
}

func TestMarkLessonComplete(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)
	lessons := createModuleWithLessons(t, db, course.ID, 0, 2)

	record, err := svc.MarkLessonComplete(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, record.EnrollmentID)

	// The stored percentage refreshes as a side effect
	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 50.0, stored.ProgressPercent)
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)
	lessons := createModuleWithLessons(t, db, course.ID, 0, 2)

	first, err := svc.MarkLessonComplete(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	second, err := svc.MarkLessonComplete(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&courseModels.Progress{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestMarkLessonCompleteRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "visitor")
	course := createCourse(t, db, "Go Basics", nil)
	lessons := createModuleWithLessons(t, db, course.ID, 0, 1)

	_, err := svc.MarkLessonComplete(user.ID, course.ID, lessons[0].ID)
	assert.True(t, IsNotFound(err))
}

func TestMarkLessonCompleteRejectsForeignLesson(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	other := createCourse(t, db, "Other Course", nil)
	createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)
	foreign := createModuleWithLessons(t, db, other.ID, 0, 1)

	_, err := svc.MarkLessonComplete(user.ID, course.ID, foreign[0].ID)
	assert.True(t, IsNotFound(err))
}

func TestMarkLessonCompleteRejectsLessonInDeletedModule(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	module := courseModels.Module{CourseID: course.ID, Title: "Retired", OrderIndex: 0}
	require.NoError(t, db.Create(&module).Error)
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "Lesson", ContentType: "TEXT"}
	require.NoError(t, db.Create(&lesson).Error)
	require.NoError(t, db.Model(&module).Update("is_deleted", true).Error)

	_, err := svc.MarkLessonComplete(user.ID, course.ID, lesson.ID)
	assert.True(t, IsNotFound(err))
}

func TestRecomputeEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)
	lessons := createModuleWithLessons(t, db, course.ID, 0, 2)

	require.NoError(t, db.Create(&courseModels.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
	}).Error)

	require.NoError(t, svc.RecomputeEnrollment(&enrollment))
	assert.Equal(t, 50.0, enrollment.ProgressPercent)

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 50.0, stored.ProgressPercent)
}

func TestRecomputeEnrollmentIgnoresCompletionsOfDeletedLessons(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	user := createUser(t, db, "ravi")
	course := createCourse(t, db, "Go Basics", nil)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)
	lessons := createModuleWithLessons(t, db, course.ID, 0, 2)

	// Both lessons completed, then one is removed from the course
	for _, lesson := range lessons {
		require.NoError(t, db.Create(&courseModels.Progress{
			EnrollmentID: enrollment.ID,
			LessonID:     lesson.ID,
		}).Error)
	}
	require.NoError(t, db.Model(&lessons[1]).Update("is_deleted", true).Error)

	require.NoError(t, svc.RecomputeEnrollment(&enrollment))
	assert.Equal(t, 100.0, enrollment.ProgressPercent)
	assert.LessOrEqual(t, enrollment.ProgressPercent, 100.0)

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 100.0, stored.ProgressPercent)
}
