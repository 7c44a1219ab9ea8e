package utils

import (
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSchedulerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.Progress{},
	))

	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = database.DbInstance{} })

	return db
}

// A lesson removal touches no enrollment row, yet the affected enrollments
// must still be picked up and their stored percentage corrected.
func TestReconcileEnrollmentProgressAfterLessonRemoval(t *testing.T) {
	db := setupSchedulerDB(t)

	course := courseModels.Course{Title: "Go Basics", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	module := courseModels.Module{CourseID: course.ID, Title: "Module"}
	require.NoError(t, db.Create(&module).Error)

	done := courseModels.Lesson{ModuleID: module.ID, Title: "Done", ContentType: "TEXT"}
	require.NoError(t, db.Create(&done).Error)
	dropped := courseModels.Lesson{ModuleID: module.ID, Title: "Dropped", ContentType: "TEXT"}
	require.NoError(t, db.Create(&dropped).Error)

	enrollment := courseModels.Enrollment{
		UserID:          1,
		CourseID:        course.ID,
		EnrollmentDate:  time.Now(),
		Status:          courseModels.EnrollmentActive,
		ProgressPercent: 50,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	require.NoError(t, db.Create(&courseModels.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     done.ID,
	}).Error)

	// The enrollment was last touched long before the reconciliation window
	require.NoError(t, db.Model(&enrollment).
		UpdateColumn("updated_at", time.Now().AddDate(0, 0, -7)).Error)

	// Removing the unfinished lesson makes the stored 50% stale
	require.NoError(t, db.Model(&dropped).Update("is_deleted", true).Error)

	ReconcileEnrollmentProgress()

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 100.0, stored.ProgressPercent)
}

// Enrollments touched inside the window are still swept even when no
// course content changed.
func TestReconcileEnrollmentProgressRecentEnrollment(t *testing.T) {
	db := setupSchedulerDB(t)

	course := courseModels.Course{Title: "Go Basics", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	module := courseModels.Module{CourseID: course.ID, Title: "Module"}
	require.NoError(t, db.Create(&module).Error)
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "Lesson", ContentType: "TEXT"}
	require.NoError(t, db.Create(&lesson).Error)

	// Content predates the window; only the enrollment is fresh
	old := time.Now().AddDate(0, 0, -7)
	require.NoError(t, db.Model(&module).UpdateColumn("updated_at", old).Error)
	require.NoError(t, db.Model(&lesson).UpdateColumn("updated_at", old).Error)

	enrollment := courseModels.Enrollment{
		UserID:          1,
		CourseID:        course.ID,
		EnrollmentDate:  time.Now(),
		Status:          courseModels.EnrollmentActive,
		ProgressPercent: 75,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	require.NoError(t, db.Create(&courseModels.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lesson.ID,
	}).Error)

	ReconcileEnrollmentProgress()

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 100.0, stored.ProgressPercent)
}
