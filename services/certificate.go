package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	courseModels "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateResult is the issued-certificate view returned to callers
type CertificateResult struct {
	CertificateID     uint      `json:"certificate_id"`
	CertificateNumber string    `json:"certificate_number"`
	CertificateURL    string    `json:"certificate_url"`
	IssueDate         time.Time `json:"issue_date"`
}

// CertificateService gates certificate issuance on full course completion
// and guarantees at most one certificate per (student, course).
type CertificateService struct {
	db       *gorm.DB
	progress *ProgressService
}

func NewCertificateService(db *gorm.DB, progress *ProgressService) *CertificateService {
	return &CertificateService{db: db, progress: progress}
}

// GetOrCreateCertificate returns the student's certificate for a course,
// issuing it first if the course is fully completed and none exists yet.
// A second call returns the same certificate unchanged.
//
// The certificate row is persisted before the enrollment status flip; if
// the flip fails the certificate still stands. Accepted two-step write.
func (s *CertificateService) GetOrCreateCertificate(studentID, courseID uint) (*CertificateResult, error) {
	progress, err := s.progress.GetCourseProgress(studentID, courseID)
	if err != nil || progress.CompletionPercentage < 100 {
		if err != nil {
			log.Printf("[CERTIFICATE] Progress check failed for user %d course %d: %v", studentID, courseID, err)
		}
		return nil, ErrIncompleteCourse
	}

	var existing courseModels.Certificate
	err = s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).
		First(&existing).Error
	if err == nil {
		return certificateResult(&existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenceError{Op: "GetOrCreateCertificate", Err: err}
	}

	// PDF generation is stubbed: the URL points at a placeholder document
	certID := uuid.New().String()
	certificate := courseModels.Certificate{
		UserID:            studentID,
		CourseID:          courseID,
		CertificateNumber: certificateNumber(certID),
		CertificateURL:    fmt.Sprintf("/certificates/%s.pdf", certID),
		IssuedAt:          time.Now().UTC(),
	}

	tx := s.db.Begin()
	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		// A concurrent issuance lands on the (user_id, course_id) unique
		// index; return the certificate that won.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if lookupErr := s.db.Where("user_id = ? AND course_id = ?", studentID, courseID).
				First(&existing).Error; lookupErr == nil {
				return certificateResult(&existing), nil
			}
		}
		log.Printf("[CERTIFICATE] Failed to issue certificate for user %d course %d: %v", studentID, courseID, err)
		return nil, &PersistenceError{Op: "GetOrCreateCertificate", Err: err}
	}
	tx.Commit()

	// Flip the enrollment to Completed after the certificate exists
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).
		First(&enrollment).Error; err == nil {
		now := time.Now().UTC()
		enrollment.Status = courseModels.EnrollmentCompleted
		enrollment.CompletedAt = &now
		if err := s.db.Save(&enrollment).Error; err != nil {
			log.Printf("[CERTIFICATE] Failed to mark enrollment %d completed: %v", enrollment.ID, err)
		}
	}

	return certificateResult(&certificate), nil
}

// GetCertificatesByUser lists a student's issued certificates
func (s *CertificateService) GetCertificatesByUser(userID uint) ([]courseModels.Certificate, error) {
	var certificates []courseModels.Certificate
	if err := s.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return nil, &PersistenceError{Op: "GetCertificatesByUser", Err: err}
	}
	return certificates, nil
}

func certificateResult(cert *courseModels.Certificate) *CertificateResult {
	return &CertificateResult{
		CertificateID:     cert.ID,
		CertificateNumber: cert.CertificateNumber,
		CertificateURL:    cert.CertificateURL,
		IssueDate:         cert.IssuedAt,
	}
}

func certificateNumber(certID string) string {
	short := strings.ToUpper(strings.ReplaceAll(certID, "-", ""))
	if len(short) > 12 {
		short = short[:12]
	}
	return "CERT-" + short
}
