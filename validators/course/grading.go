package courseValidator

import (
	"lms/middleware"
	"lms/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// GradeSubmission validates the submission id parameter and the grading body.
// The grade range is checked against the assignment inside the service; here
// only shape-level constraints apply.
func GradeSubmission() fiber.Handler {
	return paramID("submission_id", "submissionID")
}

// GradeBody parses and validates the grading payload
func GradeBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AssignmentID uint    `json:"assignment_id" validate:"required"`
			Grade        float64 `json:"grade" validate:"min=0"`
			Feedback     string  `json:"feedback" validate:"max=1000"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrade", &services.GradeInput{
			AssignmentID: reqData.AssignmentID,
			Grade:        reqData.Grade,
			Feedback:     reqData.Feedback,
		})
		return c.Next()
	}
}

// GetSubmissionsByAssignment validates the assignment id parameter
func GetSubmissionsByAssignment() fiber.Handler {
	return paramID("assignment_id", "assignmentID")
}

// GetSubmissionForGrading validates the submission id parameter
func GetSubmissionForGrading() fiber.Handler {
	return paramID("submission_id", "submissionID")
}
