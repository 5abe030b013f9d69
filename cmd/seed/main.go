package main

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskmaster/internal/model"
	"taskmaster/pkg/config"
	"taskmaster/pkg/database"
	"taskmaster/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		name     string
		email    string
		password string
	}{
		{"Alice", "alice@test.com", "password123"},
		{"Bob", "bob@test.com", "password123"},
		{"Charlie", "charlie@test.com", "password123"},
	}

	userIDs := make([]string, 0, len(testUsers))

	for _, userData := range testUsers {
		var existing model.UserModel
		result := db.Where("email = ?", userData.email).First(&existing)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", userData.email)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := &model.UserModel{
			Name:         userData.name,
			Email:        userData.email,
			PasswordHash: string(hashedPassword),
		}
		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", userData.email, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.Name, user.Email)
		userIDs = append(userIDs, user.ID)
	}

	now := time.Now().UTC()
	for _, userID := range userIDs {
		var count int64
		db.Model(&model.TaskModel{}).Where("user_id = ?", userID).Count(&count)
		if count > 0 {
			continue
		}

		dueSoon := now.Add(90 * time.Minute)
		overdue := now.Add(-2 * time.Hour)
		nextWeek := now.Add(5 * 24 * time.Hour)

		tasks := []*model.TaskModel{
			{UserID: userID, Title: "Write project proposal", Status: "todo", Priority: "high", DueDate: &dueSoon, Tags: model.StringList{"work", "writing"}},
			{UserID: userID, Title: "Pay utility bill", Status: "todo", Priority: "med", DueDate: &overdue, Tags: model.StringList{"home"}},
			{UserID: userID, Title: "Plan team offsite", Status: "doing", Priority: "low", DueDate: &nextWeek, Tags: model.StringList{"work"}},
			{UserID: userID, Title: "Read design doc", Status: "done", Priority: "med", Tags: model.StringList{}},
		}
		for _, task := range tasks {
			if err := db.Create(task).Error; err != nil {
				log.Error("Failed to create task %q: %v", task.Title, err)
			}
		}
		log.Info("Seeded %d tasks for user %s", len(tasks), userID)
	}

	return nil
}
