package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GradeSubmission records a score and feedback for a submission
func GradeSubmission(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGrade").(*services.GradeInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	reqData.SubmissionID = uint(c.Locals("submissionID").(int))

	service := services.NewGradingService(database.Database.Db, config.AppConfig)
	submission, err := service.GradeSubmission(*reqData)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}

// GetSubmissionsByAssignment lists submissions for an assignment
func GetSubmissionsByAssignment(c *fiber.Ctx) error {
	assignmentID := c.Locals("assignmentID").(int)

	service := services.NewGradingService(database.Database.Db, config.AppConfig)
	items, err := service.GetSubmissionsByAssignment(uint(assignmentID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"submissions": items,
		"total":       len(items),
	})
}

// GetSubmissionForGrading fetches one submission with assignment context
func GetSubmissionForGrading(c *fiber.Ctx) error {
	submissionID := c.Locals("submissionID").(int)

	service := services.NewGradingService(database.Database.Db, config.AppConfig)
	item, err := service.GetSubmissionForGrading(uint(submissionID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", item)
}
