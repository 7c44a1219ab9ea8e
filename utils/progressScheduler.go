package utils

import (
	"log"

	"lms/database"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeProgressScheduler sets up the nightly progress reconciliation job.
// Stored percentages can drift when lessons are added to a course after
// students enrolled; the job recomputes them from the completion rows.
func InitializeProgressScheduler() {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[PROGRESS-SCHEDULER] Running nightly progress reconciliation...")
		ReconcileEnrollmentProgress()
	})

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress scheduler started - runs daily at 3 AM")
}

// ReconcileEnrollmentProgress recomputes the stored percentage for every
// enrollment whose course's module or lesson set changed since the start of
// yesterday, plus enrollments touched directly in the same window.
func ReconcileEnrollmentProgress() {
	db := database.Database.Db
	progressService := services.NewProgressService(db)

	since := now.BeginningOfDay().AddDate(0, 0, -1)

	// Lesson and module edits never touch enrollment rows, so the stale
	// enrollments are found through their course.
	var changedCourseIDs []uint
	if err := db.Model(&courseModels.Module{}).
		Where("updated_at >= ?", since).
		Distinct().Pluck("course_id", &changedCourseIDs).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching changed modules: %v", err)
		return
	}
	var lessonCourseIDs []uint
	if err := db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.updated_at >= ?", since).
		Distinct().Pluck("modules.course_id", &lessonCourseIDs).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching changed lessons: %v", err)
		return
	}
	changedCourseIDs = append(changedCourseIDs, lessonCourseIDs...)

	query := db.Where("is_deleted = ?", false)
	if len(changedCourseIDs) > 0 {
		query = query.Where("course_id IN ? OR updated_at >= ?", changedCourseIDs, since)
	} else {
		query = query.Where("updated_at >= ?", since)
	}

	var enrollments []courseModels.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching enrollments: %v", err)
		return
	}

	log.Printf("[PROGRESS-SCHEDULER] Reconciling %d enrollments", len(enrollments))

	updated := 0
	for i := range enrollments {
		before := enrollments[i].ProgressPercent
		if err := progressService.RecomputeEnrollment(&enrollments[i]); err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error recomputing enrollment %d: %v", enrollments[i].ID, err)
			continue
		}
		if enrollments[i].ProgressPercent != before {
			updated++
		}
	}

	if updated > 0 {
		log.Printf("[PROGRESS-SCHEDULER] Corrected %d stale progress values", updated)
	}
}
