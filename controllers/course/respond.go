package controllers

import (
	"errors"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// serviceErrorResponse maps a service error kind to the HTTP response.
// Business failures surface verbatim; anything else becomes a generic
// update failure.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", fiber.Map{
			"violations": validationErr.Violations,
		})
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, notFoundErr.Entity+" not found!", nil)
	}

	switch {
	case errors.Is(err, services.ErrDuplicateEnrollment):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Student is already enrolled in this course!", nil)
	case errors.Is(err, services.ErrCapacityExceeded):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course has reached maximum capacity!", nil)
	case errors.Is(err, services.ErrIncompleteCourse):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Update failed, please try again!", nil)
}

// currentUser pulls the authenticated user id set by the JWT middleware
func currentUser(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok
}
