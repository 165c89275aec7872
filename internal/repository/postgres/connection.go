package postgres

import (
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Item{},
		&domain.Skill{},
		&domain.Encounter{},
		&domain.Title{},
		&domain.Season{},
		&domain.Task{},
		&domain.TaskSubmission{},
		&domain.Recipe{},
		&domain.CombatLog{},
		&domain.BufferedCombatLog{},
		&domain.ActivityLog{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:           NewUserRepository(db),
		Session:        NewSessionRepository(db),
		Item:           NewItemRepository(db),
		Skill:          NewSkillRepository(db),
		Encounter:      NewEncounterRepository(db),
		Title:          NewTitleRepository(db),
		Season:         NewSeasonRepository(db),
		Task:           NewTaskRepository(db),
		TaskSubmission: NewTaskSubmissionRepository(db),
		Recipe:         NewRecipeRepository(db),
		CombatLog:      NewCombatLogRepository(db),
		BufferedLog:    NewBufferedCombatLogRepository(db),
		ActivityLog:    NewActivityLogRepository(db),
		Tx:             NewTxManager(db),
	}
}
