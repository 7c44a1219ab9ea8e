package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// paramID validates that the named route parameter is a positive integer
// and stores it in Locals under localsKey.
func paramID(paramName, localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(paramName))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ID parameter is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID parameter!", nil)
		}

		c.Locals(localsKey, id)
		return c.Next()
	}
}

// EnrollCourse validates the course id for enrollment
func EnrollCourse() fiber.Handler {
	return paramID("id", "courseID")
}

// GetCourseDetail validates the course id for course detail
func GetCourseDetail() fiber.Handler {
	return paramID("id", "courseID")
}

// GetCourseProgress validates the course id for progress tracking
func GetCourseProgress() fiber.Handler {
	return paramID("course_id", "courseID")
}

// RequestCertificate validates the course id for certificate issuance
func RequestCertificate() fiber.Handler {
	return paramID("course_id", "courseID")
}

// MarkLessonComplete validates course and lesson ids
func MarkLessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("course_id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		lessonID, err := strconv.Atoi(strings.TrimSpace(c.Params("lesson_id")))
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// CourseList validates optional pagination for the course listing
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}
