package database

import (
	"fmt"
	"log"
	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不自动迁移，除非显式要求
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	if cfg.Seed {
		if err := Seed(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate 建表/同步表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizAttempt{},
		&model.Answer{},
	)
}

// Seed 写入演示数据：管理员、普通用户和一套示例 quiz。
// 已存在用户时跳过，可重复执行。
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		log.Println("Seed skipped: users already exist")
		return nil
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:     "Admin User",
		Email:    "admin@example.com",
		Password: string(adminHash),
		Role:     model.RoleAdmin,
	}
	regular := &model.User{
		Name:     "Regular User",
		Email:    "user@example.com",
		Password: string(userHash),
		Role:     model.RoleUser,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	if err := db.Create(regular).Error; err != nil {
		return err
	}

	type seedOption struct {
		content string
		correct bool
	}
	type seedQuestion struct {
		content string
		options []seedOption
	}
	type seedQuiz struct {
		title       string
		description string
		timeLimit   int
		userID      uint
		questions   []seedQuestion
	}

	quizzes := []seedQuiz{
		{
			title:       "Basic Mathematics Quiz",
			description: "Test your knowledge of fundamental math concepts",
			timeLimit:   600,
			userID:      admin.ID,
			questions: []seedQuestion{
				{"What is the result of 7 × 8?", []seedOption{
					{"54", false}, {"56", true}, {"58", false}, {"64", false},
				}},
				{"Solve for x: 2x + 5 = 13", []seedOption{
					{"x = 4", true}, {"x = 5", false}, {"x = 6", false}, {"x = 8", false},
				}},
				{"What is the square root of 81?", []seedOption{
					{"7", false}, {"8", false}, {"9", true}, {"11", false},
				}},
			},
		},
		{
			title:       "General Science Quiz",
			description: "Explore basic concepts in physics, chemistry, and biology",
			timeLimit:   480,
			userID:      admin.ID,
			questions: []seedQuestion{
				{"What is the chemical symbol for gold?", []seedOption{
					{"Go", false}, {"Gd", false}, {"Au", true}, {"Ag", false},
				}},
				{"Which planet is known as the Red Planet?", []seedOption{
					{"Venus", false}, {"Mars", true}, {"Jupiter", false}, {"Saturn", false},
				}},
			},
		},
		{
			title:       "World History Quiz",
			description: "Journey through important historical events",
			timeLimit:   600,
			userID:      admin.ID,
			questions: []seedQuestion{
				{"In which year did World War II end?", []seedOption{
					{"1943", false}, {"1944", false}, {"1945", true}, {"1946", false},
				}},
				{"Who was the first President of the United States?", []seedOption{
					{"Thomas Jefferson", false}, {"George Washington", true}, {"John Adams", false}, {"Benjamin Franklin", false},
				}},
			},
		},
	}

	for _, sq := range quizzes {
		quiz := &model.Quiz{
			Title:       sq.title,
			Description: sq.description,
			TimeLimit:   sq.timeLimit,
			UserID:      sq.userID,
		}
		if err := db.Create(quiz).Error; err != nil {
			return err
		}
		for _, q := range sq.questions {
			question := &model.Question{
				QuizID:  quiz.ID,
				Content: q.content,
				Type:    model.QuestionTypeMultipleChoice,
			}
			if err := db.Create(question).Error; err != nil {
				return err
			}
			for _, o := range q.options {
				option := &model.Option{
					QuestionID: question.ID,
					Content:    o.content,
					IsCorrect:  o.correct,
				}
				if err := db.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		log.Printf("Seeded quiz: %s", sq.title)
	}

	log.Println("Database seeding completed")
	return nil
}
