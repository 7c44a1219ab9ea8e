package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetUserProgress returns the current user's progress for a course and
// refreshes the stored percentage on the enrollment.
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	service := services.NewProgressService(database.Database.Db)
	progress, err := service.GetCourseProgress(userID, uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

// MarkLessonComplete records a completed lesson for the current user
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	service := services.NewProgressService(database.Database.Db)
	record, err := service.MarkLessonComplete(userID, uint(courseID), uint(lessonID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed successfully!", record)
}

// AdminGetStudentProgress returns a specific student's progress for a course
func AdminGetStudentProgress(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(int)
	courseID := c.Locals("courseID").(int)

	service := services.NewProgressService(database.Database.Db)
	progress, err := service.GetCourseProgress(uint(studentID), uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
