package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// CourseRequest is the validated admin payload for course create/update
type CourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Author      string `json:"author" validate:"max=100"`
	MaxCapacity *int   `json:"max_capacity" validate:"omitempty,min=1"`
}

// ModuleRequest is the validated admin payload for module create/update
type ModuleRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
}

// LessonRequest is the validated admin payload for lesson create/update
type LessonRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO IMAGE"`
	ContentUrl  string `json:"content_url" validate:"omitempty,url,max=500"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
}

// AdminCreateCourse creates a new course in draft state
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Author:      reqData.Author,
		MaxCapacity: reqData.MaxCapacity,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates course fields
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedCourse").(*CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Author = reqData.Author
	course.MaxCapacity = reqData.MaxCapacity

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminPublishCourse marks a course as published and active
func AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsPublished = true
	course.Status = "ACTIVE"

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// AdminDeleteCourse soft-deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminCreateModule adds a module to a course
func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedModule").(*ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	module := courseModels.Module{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminCreateLesson adds a lesson to a module. The content URL is probed
// with a HEAD request; an unreachable URL is flagged in the response but
// does not block the save.
func AdminCreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)
	reqData, ok := c.Locals("validatedLesson").(*LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	contentType := reqData.ContentType
	if contentType == "" {
		contentType = "TEXT"
	}

	lesson := courseModels.Lesson{
		ModuleID:    uint(moduleID),
		Title:       reqData.Title,
		ContentType: contentType,
		ContentUrl:  reqData.ContentUrl,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	linkOk := utils.CheckContentUrl(reqData.ContentUrl)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", fiber.Map{
		"lesson":         lesson,
		"content_url_ok": linkOk,
	})
}

// AdminListModules lists a course's modules with their lessons
func AdminListModules(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

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

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", result)
}

// AdminDashboardStats returns headline numbers for the admin dashboard
func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalCourses, totalEnrollments, completedEnrollments, issuedCertificates int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted).Count(&completedEnrollments)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&issuedCertificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_courses":         totalCourses,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"issued_certificates":   issuedCertificates,
	})
}
