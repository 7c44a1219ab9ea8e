package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// One certificate per (user, course) is enforced by the composite
// unique index in addition to the issuance check.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	CertificateURL    string    `json:"certificate_url"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
