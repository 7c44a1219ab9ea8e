package courseRoutes

import (
	"lms/config"
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	if config.AppConfig.EnableEnrollment {
		courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)
	}

	// Lesson completion and progress tracking
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.MarkLessonComplete(), controllers.MarkLessonComplete)
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetUserProgress)

	// Certificate request
	if config.AppConfig.EnableCertification {
		courseGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, validators.RequestCertificate(), controllers.GetOrCreateCertificate)
	}

	// User enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
