package courseRoutes

import (
	"lms/config"
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleInstructor)

	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, adminOnly, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, adminOnly, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, adminOnly, validators.CourseIDAdmin(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, adminOnly, validators.CourseIDAdmin(), controllers.AdminPublishCourse)

	// Module and lesson management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, adminOnly, validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/:id/modules", middleware.JWTMiddleware, staffOnly, validators.CourseIDAdmin(), controllers.AdminListModules)
	adminGroup.Post("/:course_id/module/:module_id/lesson", middleware.JWTMiddleware, adminOnly, validators.CreateLesson(), controllers.AdminCreateLesson)

	// Enrollment management
	if config.AppConfig.EnableEnrollment {
		adminGroup.Get("/:id/enrollments", middleware.JWTMiddleware, staffOnly, validators.CourseIDAdmin(), controllers.AdminGetCourseEnrollments)

		enrollGroup := app.Group("/admin/enrollment")
		enrollGroup.Post("/create", middleware.JWTMiddleware, adminOnly, validators.AdminEnrollmentBody(), controllers.AdminCreateEnrollment)
		enrollGroup.Get("/:enrollment_id", middleware.JWTMiddleware, staffOnly, validators.EnrollmentID(), controllers.AdminGetEnrollment)
		enrollGroup.Put("/:enrollment_id", middleware.JWTMiddleware, adminOnly, validators.EnrollmentID(), validators.AdminEnrollmentBody(), controllers.AdminUpdateEnrollment)
		enrollGroup.Delete("/:enrollment_id", middleware.JWTMiddleware, adminOnly, validators.EnrollmentID(), controllers.AdminDeleteEnrollment)
	}

	// Student progress
	studentGroup := app.Group("/admin/student")
	studentGroup.Get("/:user_id/course/:course_id/progress", middleware.JWTMiddleware, staffOnly, validators.GetStudentProgress(), controllers.AdminGetStudentProgress)

	// Grading
	if config.AppConfig.EnableGrading {
		gradingGroup := app.Group("/admin/grading")
		gradingGroup.Get("/assignment/:assignment_id/submissions", middleware.JWTMiddleware, staffOnly, validators.GetSubmissionsByAssignment(), controllers.GetSubmissionsByAssignment)
		gradingGroup.Get("/submission/:submission_id", middleware.JWTMiddleware, staffOnly, validators.GetSubmissionForGrading(), controllers.GetSubmissionForGrading)
		gradingGroup.Post("/submission/:submission_id/grade", middleware.JWTMiddleware, staffOnly, validators.GradeSubmission(), validators.GradeBody(), controllers.GradeSubmission)
	}

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, adminOnly, controllers.AdminDashboardStats)
}
