package database

import (
	"fmt"
	"log"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedWordTypes(db)

	return db, nil
}

// Migrate runs the schema migration for every model. Split out so the test
// suite can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Component{},
		&model.Word{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.TestAttempt{},
		&model.UserCourse{},
		&model.UserLesson{},
	)
}

func seedWordTypes(db *gorm.DB) {
	// Seed a handful of starter vocabulary so a fresh install is browsable.
	var count int64
	db.Model(&model.Word{}).Count(&count)
	if count > 0 {
		return
	}
	defaults := []model.Word{
		{Content: "hello", Meaning: "a greeting", WordType: model.WordNoun},
		{Content: "run", Meaning: "to move quickly on foot", WordType: model.WordVerb},
		{Content: "bright", Meaning: "giving out much light", WordType: model.WordAdjective},
	}
	for _, w := range defaults {
		db.Create(&w)
	}
}
