package service

import (
	"github.com/yeluhq/terminal-server/internal/config"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
)

type Services struct {
	Auth   *AuthService
	Admin  *AdminService
	Combat *CombatService
	Item   *ItemService
	Task   *TaskService
	Title  *TitleService
	Reward *RewardService
	Season *SeasonService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, feed LogFeed) *Services {
	return &Services{
		Auth:   NewAuthService(repos.User, repos.Session, cfg),
		Admin:  NewAdminService(repos),
		Combat: NewCombatService(repos, domain.DefaultRand, feed),
		Item:   NewItemService(repos),
		Task:   NewTaskService(repos),
		Title:  NewTitleService(repos),
		Reward: NewRewardService(repos, cfg.RosterCacheTTL),
		Season: NewSeasonService(repos),
	}
}
