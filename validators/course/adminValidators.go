package courseValidator

import (
	"strconv"
	"strings"
	"time"

	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// parseParam reads a positive integer route parameter
func parseParam(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params(name)))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// validateBody parses the request body into target and runs struct validation
func validateBody(c *fiber.Ctx, target interface{}) (map[string]string, bool) {
	if err := c.BodyParser(target); err != nil {
		return map[string]string{"body": "Invalid request body!"}, false
	}

	if err := validate.Struct(target); err != nil {
		errors := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
		}
		return errors, false
	}
	return nil, true
}

// CreateCourseAdmin validates the admin course creation payload
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.CourseRequest)
		if errs, ok := validateBody(c, reqData); !ok {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates the course id and update payload
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		reqData := new(controllers.CourseRequest)
		if errs, ok := validateBody(c, reqData); !ok {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("courseID", courseID)
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseIDAdmin validates the course id parameter on admin routes
func CourseIDAdmin() fiber.Handler {
	return paramID("id", "courseID")
}

// CreateModule validates the course id and module payload
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		reqData := new(controllers.ModuleRequest)
		if errs, ok := validateBody(c, reqData); !ok {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("courseID", courseID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// CreateLesson validates the course id, module id and lesson payload
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		moduleID, ok := parseParam(c, "module_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}
		reqData := new(controllers.LessonRequest)
		if errs, ok := validateBody(c, reqData); !ok {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// AdminEnrollmentBody validates the explicit enrollment payload used by
// admin create/update. Referential checks run inside the service.
func AdminEnrollmentBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID          uint    `json:"user_id" validate:"required"`
			CourseID        uint    `json:"course_id" validate:"required"`
			EnrollmentDate  string  `json:"enrollment_date"`
			Status          string  `json:"status" validate:"required,oneof=Active Completed Dropped Pending"`
			ProgressPercent float64 `json:"progress_percent" validate:"min=0,max=100"`
		})
		if errs, ok := validateBody(c, reqData); !ok {
			return middleware.ValidationErrorResponse(c, errs)
		}

		enrollmentDate := time.Now()
		if reqData.EnrollmentDate != "" {
			parsed, err := time.Parse("2006-01-02", reqData.EnrollmentDate)
			if err != nil {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"enrollment_date": "Enrollment date must be in YYYY-MM-DD format!",
				})
			}
			enrollmentDate = parsed
		}

		c.Locals("validatedEnrollment", &services.EnrollmentInput{
			UserID:          reqData.UserID,
			CourseID:        reqData.CourseID,
			EnrollmentDate:  enrollmentDate,
			Status:          reqData.Status,
			ProgressPercent: reqData.ProgressPercent,
		})
		return c.Next()
	}
}

// EnrollmentID validates the enrollment id parameter
func EnrollmentID() fiber.Handler {
	return paramID("enrollment_id", "enrollmentID")
}

// GetStudentProgress validates student and course id parameters
func GetStudentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID, ok := parseParam(c, "user_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		courseID, ok := parseParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("studentID", studentID)
		c.Locals("courseID", courseID)
		return c.Next()
	}
}
