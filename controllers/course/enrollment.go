package controllers

import (
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the current user into a course
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	enrollment, err := service.CreateEnrollment(services.EnrollmentInput{
		UserID:         userID,
		CourseID:       uint(courseID),
		EnrollmentDate: time.Now(),
		Status:         courseModels.EnrollmentActive,
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetUserEnrollmentsList gets all enrollments for the current user
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	enrollments, err := service.GetEnrollmentsByUser(userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseName        string `json:"course_name"`
		CourseDescription string `json:"course_description"`
		CourseAuthor      string `json:"course_author"`
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:        e,
			CourseName:        course.Title,
			CourseDescription: course.Description,
			CourseAuthor:      course.Author,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// AdminGetCourseEnrollments lists all enrollments of a course with student details
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	items, err := service.GetEnrollmentsByCourse(uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": items,
		"total":       len(items),
	})
}

// AdminCreateEnrollment creates an enrollment with explicit fields
func AdminCreateEnrollment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnrollment").(*services.EnrollmentInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	enrollment, err := service.CreateEnrollment(*reqData)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment created successfully!", enrollment)
}

// AdminUpdateEnrollment rewrites an existing enrollment
func AdminUpdateEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)
	reqData, ok := c.Locals("validatedEnrollment").(*services.EnrollmentInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	enrollment, err := service.UpdateEnrollment(uint(enrollmentID), *reqData)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// AdminDeleteEnrollment removes an enrollment
func AdminDeleteEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	if err := service.DeleteEnrollment(uint(enrollmentID)); err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", nil)
}

// AdminGetEnrollment fetches one enrollment by id
func AdminGetEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	service := services.NewEnrollmentService(database.Database.Db, config.AppConfig)
	enrollment, err := service.GetEnrollmentByID(uint(enrollmentID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	var student models.User
	database.Database.Db.Where("id = ?", enrollment.UserID).First(&student)
	var course courseModels.Course
	database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", fiber.Map{
		"enrollment":   enrollment,
		"student_name": student.FullName,
		"course_title": course.Title,
	})
}
