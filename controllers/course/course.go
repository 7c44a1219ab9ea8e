package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses for students
func GetAllCourses(c *fiber.Ctx) error {
	// Retrieve validated pagination request
	reqData, ok := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if ok && reqData.Page != nil {
		page = *reqData.Page
	}
	if ok && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails gets course details with modules and lessons for users
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules)

	type ModuleWithLessons struct {
		courseModels.Module
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	result := make([]ModuleWithLessons, len(modules))
	for i, module := range modules {
		result[i] = ModuleWithLessons{Module: module}
		database.Database.Db.Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Order("order_index asc").Find(&result[i].Lessons)
	}

	// Check if user is enrolled
	var enrollment courseModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"modules":     result,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
	})
}
