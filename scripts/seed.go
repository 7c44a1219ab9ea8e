package main

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	log.Println("Seeding users...")
	admin := seedUser(db, "Platform Admin", "admin@lms.local", "Admin@12345", models.RoleAdmin)
	instructor := seedUser(db, "Asha Instructor", "asha@lms.local", "Teach@12345", models.RoleInstructor)
	student := seedUser(db, "Ravi Student", "ravi@lms.local", "Learn@12345", models.RoleStudent)
	log.Printf("Seeded users: admin=%d instructor=%d student=%d", admin.ID, instructor.ID, student.ID)

	log.Println("Seeding course catalog...")
	capacity := 50
	course := courseModels.Course{
		Title:       "Introduction to Distributed Systems",
		Description: "Consensus, replication and failure handling from first principles.",
		Author:      instructor.FullName,
		MaxCapacity: &capacity,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	if err := db.Where("title = ?", course.Title).FirstOrCreate(&course).Error; err != nil {
		log.Fatalf("Failed to seed course: %v", err)
	}

	moduleOne := courseModels.Module{
		CourseID:    course.ID,
		Title:       "Foundations",
		Description: "Clocks, ordering and the trouble with shared state.",
		OrderIndex:  0,
	}
	db.Where("course_id = ? AND title = ?", course.ID, moduleOne.Title).FirstOrCreate(&moduleOne)

	moduleTwo := courseModels.Module{
		CourseID:    course.ID,
		Title:       "Consensus",
		Description: "Leader election and log replication.",
		OrderIndex:  1,
	}
	db.Where("course_id = ? AND title = ?", course.ID, moduleTwo.Title).FirstOrCreate(&moduleTwo)

	lessons := []courseModels.Lesson{
		{ModuleID: moduleOne.ID, Title: "Why distribute at all?", ContentType: "TEXT", OrderIndex: 0},
		{ModuleID: moduleOne.ID, Title: "Lamport clocks", ContentType: "VIDEO", OrderIndex: 1},
		{ModuleID: moduleTwo.ID, Title: "Raft in one sitting", ContentType: "VIDEO", OrderIndex: 0},
		{ModuleID: moduleTwo.ID, Title: "Handling partitions", ContentType: "TEXT", OrderIndex: 1},
	}
	for i := range lessons {
		db.Where("module_id = ? AND title = ?", lessons[i].ModuleID, lessons[i].Title).FirstOrCreate(&lessons[i])
	}

	assignment := courseModels.Assignment{
		CourseID: course.ID,
		Title:    "Implement a replicated counter",
		DueDate:  time.Now().AddDate(0, 1, 0),
		MaxScore: 100,
	}
	db.Where("course_id = ? AND title = ?", course.ID, assignment.Title).FirstOrCreate(&assignment)

	log.Println("Seeding enrollment...")
	enrollment := courseModels.Enrollment{
		UserID:         student.ID,
		CourseID:       course.ID,
		EnrollmentDate: time.Now(),
		Status:         courseModels.EnrollmentActive,
	}
	if err := db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).FirstOrCreate(&enrollment).Error; err != nil {
		log.Fatalf("Failed to seed enrollment: %v", err)
	}

	log.Println("Seed data ready.")
}

func seedUser(db *gorm.DB, fullName, email, password, role string) models.User {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		return user
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password for %s: %v", email, err)
	}

	user = models.User{
		FullName:        fullName,
		Email:           email,
		Password:        string(hashed),
		Role:            role,
		IsEmailVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to seed user %s: %v", email, err)
	}
	return user
}
