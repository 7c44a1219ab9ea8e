package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetOrCreateCertificate returns the current user's certificate for a
// completed course, issuing it on first request.
func GetOrCreateCertificate(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db
	service := services.NewCertificateService(db, services.NewProgressService(db))
	certificate, err := service.GetOrCreateCertificate(userID, uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificate)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db
	service := services.NewCertificateService(db, services.NewProgressService(db))
	certificates, err := service.GetCertificatesByUser(userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}
