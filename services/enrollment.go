package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// EnrollmentInput carries the fields accepted for creating or updating
// an enrollment.
type EnrollmentInput struct {
	UserID          uint      `json:"user_id"`
	CourseID        uint      `json:"course_id"`
	EnrollmentDate  time.Time `json:"enrollment_date"`
	Status          string    `json:"status"`
	ProgressPercent float64   `json:"progress_percent"`
}

// EnrollmentListItem is the joined view returned for enrollment listings
type EnrollmentListItem struct {
	EnrollmentID    uint      `json:"enrollment_id"`
	UserID          uint      `json:"user_id"`
	StudentName     string    `json:"student_name"`
	StudentEmail    string    `json:"student_email"`
	CourseID        uint      `json:"course_id"`
	CourseTitle     string    `json:"course_title"`
	EnrollmentDate  time.Time `json:"enrollment_date"`
	Status          string    `json:"status"`
	ProgressPercent float64   `json:"progress_percent"`
}

// EnrollmentService owns the enrollment lifecycle: admission checks,
// updates and removal.
type EnrollmentService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewEnrollmentService(db *gorm.DB, cfg *config.Config) *EnrollmentService {
	return &EnrollmentService{db: db, cfg: cfg}
}

// CreateEnrollment admits a student into a course. Validation runs before
// any write; duplicates and capacity overruns are rejected.
func (s *EnrollmentService) CreateEnrollment(input EnrollmentInput) (*courseModels.Enrollment, error) {
	if s.cfg.ProductVariant == "PREMIUM" {
		// Premium admission currently shares the standard rules
		log.Printf("[ENROLLMENT] Creating premium enrollment for user %d in course %d", input.UserID, input.CourseID)
	}

	if err := s.validate(input); err != nil {
		return nil, err
	}

	// One enrollment per (user, course)
	var existing courseModels.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", input.UserID, input.CourseID, false).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEnrollment
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ENROLLMENT] Duplicate check failed for user %d course %d: %v", input.UserID, input.CourseID, err)
		return nil, &PersistenceError{Op: "CreateEnrollment", Err: err}
	}

	// Capacity ceiling. The count deliberately spans every status;
	// dropped and completed enrollments still occupy a seat.
	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ?", input.CourseID, false).First(&course).Error; err != nil {
		return nil, NewNotFoundError("Course")
	}
	if course.MaxCapacity != nil {
		var count int64
		if err := s.db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND is_deleted = ?", input.CourseID, false).
			Count(&count).Error; err != nil {
			return nil, &PersistenceError{Op: "CreateEnrollment", Err: err}
		}
		if count >= int64(*course.MaxCapacity) {
			return nil, ErrCapacityExceeded
		}
	}

	enrollment := courseModels.Enrollment{
		UserID:          input.UserID,
		CourseID:        input.CourseID,
		EnrollmentDate:  input.EnrollmentDate,
		Status:          input.Status,
		ProgressPercent: input.ProgressPercent,
	}

	tx := s.db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		// A concurrent admission that slipped past the check above lands
		// on the (user_id, course_id) unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEnrollment
		}
		log.Printf("[ENROLLMENT] Insert failed for user %d course %d: %v", input.UserID, input.CourseID, err)
		return nil, &PersistenceError{Op: "CreateEnrollment", Err: err}
	}
	tx.Commit()

	return &enrollment, nil
}

// UpdateEnrollment rewrites an existing enrollment. When the (user, course)
// pair changes the duplicate check re-runs, excluding the enrollment itself.
func (s *EnrollmentService) UpdateEnrollment(enrollmentID uint, input EnrollmentInput) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, NewNotFoundError("Enrollment")
	}

	if err := s.validate(input); err != nil {
		return nil, err
	}

	if enrollment.UserID != input.UserID || enrollment.CourseID != input.CourseID {
		var existing courseModels.Enrollment
		err := s.db.Where("user_id = ? AND course_id = ? AND id <> ? AND is_deleted = ?",
			input.UserID, input.CourseID, enrollmentID, false).First(&existing).Error
		if err == nil {
			return nil, ErrDuplicateEnrollment
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PersistenceError{Op: "UpdateEnrollment", Err: err}
		}
	}

	enrollment.UserID = input.UserID
	enrollment.CourseID = input.CourseID
	enrollment.EnrollmentDate = input.EnrollmentDate
	enrollment.Status = input.Status
	enrollment.ProgressPercent = input.ProgressPercent

	tx := s.db.Begin()
	if err := tx.Save(&enrollment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEnrollment
		}
		log.Printf("[ENROLLMENT] Update failed for enrollment %d: %v", enrollmentID, err)
		return nil, &PersistenceError{Op: "UpdateEnrollment", Err: err}
	}
	tx.Commit()

	return &enrollment, nil
}

// DeleteEnrollment hard-deletes an enrollment by id
func (s *EnrollmentService) DeleteEnrollment(enrollmentID uint) error {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return NewNotFoundError("Enrollment")
	}

	if err := s.db.Unscoped().Delete(&enrollment).Error; err != nil {
		log.Printf("[ENROLLMENT] Delete failed for enrollment %d: %v", enrollmentID, err)
		return &PersistenceError{Op: "DeleteEnrollment", Err: err}
	}
	return nil
}

// GetEnrollmentByID fetches one enrollment
func (s *EnrollmentService) GetEnrollmentByID(enrollmentID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, NewNotFoundError("Enrollment")
	}
	return &enrollment, nil
}

// GetEnrollmentsByCourse lists a course's enrollments with student details
func (s *EnrollmentService) GetEnrollmentsByCourse(courseID uint) ([]EnrollmentListItem, error) {
	var enrollments []courseModels.Enrollment
	if err := s.db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("enrollment_date asc").Find(&enrollments).Error; err != nil {
		return nil, &PersistenceError{Op: "GetEnrollmentsByCourse", Err: err}
	}

	var course courseModels.Course
	courseTitle := "Unknown"
	if err := s.db.Where("id = ?", courseID).First(&course).Error; err == nil {
		courseTitle = course.Title
	}

	items := make([]EnrollmentListItem, len(enrollments))
	for i, e := range enrollments {
		item := EnrollmentListItem{
			EnrollmentID:    e.ID,
			UserID:          e.UserID,
			StudentName:     "Unknown",
			CourseID:        e.CourseID,
			CourseTitle:     courseTitle,
			EnrollmentDate:  e.EnrollmentDate,
			Status:          e.Status,
			ProgressPercent: e.ProgressPercent,
		}
		var user models.User
		if err := s.db.Where("id = ?", e.UserID).First(&user).Error; err == nil {
			item.StudentName = user.FullName
			item.StudentEmail = user.Email
		}
		items[i] = item
	}
	return items, nil
}

// GetEnrollmentsByUser lists a student's enrollments
func (s *EnrollmentService) GetEnrollmentsByUser(userID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return nil, &PersistenceError{Op: "GetEnrollmentsByUser", Err: err}
	}
	return enrollments, nil
}

// validate collects every input violation before any write happens
func (s *EnrollmentService) validate(input EnrollmentInput) error {
	var violations []string

	var user models.User
	if err := s.db.Where("id = ? AND is_deleted = ?", input.UserID, false).First(&user).Error; err != nil {
		violations = append(violations, fmt.Sprintf("user %d does not exist", input.UserID))
	}

	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ?", input.CourseID, false).First(&course).Error; err != nil {
		violations = append(violations, fmt.Sprintf("course %d does not exist", input.CourseID))
	}

	validStatus := false
	for _, status := range courseModels.ValidEnrollmentStatuses {
		if input.Status == status {
			validStatus = true
			break
		}
	}
	if !validStatus {
		violations = append(violations, fmt.Sprintf("status %q is not a valid enrollment status", input.Status))
	}

	if input.ProgressPercent < 0 || input.ProgressPercent > 100 {
		violations = append(violations, "progress percent must be between 0 and 100")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
