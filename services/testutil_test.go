package services

import (
	"testing"
	"time"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.Progress{},
		&courseModels.Assignment{},
		&courseModels.AssignmentSubmission{},
		&courseModels.Certificate{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "3000",
		ProductVariant: "STANDARD",
		SaltRound:      4,
	}
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    name + "@test.local",
		Password: "hashed",
		Role:     models.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, title string, maxCapacity *int) courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:       title,
		Author:      "Test Author",
		MaxCapacity: maxCapacity,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

// createModuleWithLessons adds one module with the given number of lessons,
// lesson order following creation order.
func createModuleWithLessons(t *testing.T, db *gorm.DB, courseID uint, orderIndex, lessonCount int) []courseModels.Lesson {
	t.Helper()
	module := courseModels.Module{
		CourseID:   courseID,
		Title:      "Module",
		OrderIndex: orderIndex,
	}
	require.NoError(t, db.Create(&module).Error)

	lessons := make([]courseModels.Lesson, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons[i] = courseModels.Lesson{
			ModuleID:    module.ID,
			Title:       "Lesson",
			ContentType: "TEXT",
			OrderIndex:  i,
		}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	return lessons
}

func createEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint, status string) courseModels.Enrollment {
	t.Helper()
	enrollment := courseModels.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: time.Now(),
		Status:         status,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func createAssignment(t *testing.T, db *gorm.DB, courseID uint, maxScore float64) courseModels.Assignment {
	t.Helper()
	assignment := courseModels.Assignment{
		CourseID: courseID,
		Title:    "Assignment",
		DueDate:  time.Now().AddDate(0, 0, 7),
		MaxScore: maxScore,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func createSubmission(t *testing.T, db *gorm.DB, assignmentID, userID uint) courseModels.AssignmentSubmission {
	t.Helper()
	submission := courseModels.AssignmentSubmission{
		AssignmentID: assignmentID,
		UserID:       userID,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}
