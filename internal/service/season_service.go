package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNoCurrentSeason = errors.New("no current season")

type SeasonService struct {
	repos *repository.Repositories
}

func NewSeasonService(repos *repository.Repositories) *SeasonService {
	return &SeasonService{repos: repos}
}

// EnsureCurrent creates the first season if none exists. Called at startup.
func (s *SeasonService) EnsureCurrent(ctx context.Context) (*domain.Season, error) {
	season, err := s.repos.Season.GetCurrent(ctx)
	if err == nil {
		return season, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	season = &domain.Season{
		ID:        uuid.New(),
		Status:    domain.SeasonCurrent,
		Totals:    datatypes.NewJSONType(domain.EmptyTotals()),
		StartedAt: time.Now(),
	}
	if err := s.repos.Season.Create(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *SeasonService) GetCurrent(ctx context.Context) (*domain.Season, error) {
	season, err := s.repos.Season.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentSeason
		}
		return nil, err
	}
	return season, nil
}

func (s *SeasonService) ListArchived(ctx context.Context) ([]*domain.Season, error) {
	return s.repos.Season.ListArchived(ctx)
}

// AddScore accumulates faction points for the current season and marks the
// contributing user active.
func (s *SeasonService) AddScore(ctx context.Context, faction domain.Faction, points int, userID uuid.UUID) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		season, err := tx.Season.GetCurrent(ctx)
		if err != nil {
			return ErrNoCurrentSeason
		}
		season.AddScore(faction, points, userID.String())
		return tx.Season.Update(ctx, season)
	})
}

// Rollover archives the current season with weighted scores and opens a fresh
// one. Both writes commit in one transaction: a crash cannot leave the old
// season both current and archived.
func (s *SeasonService) Rollover(ctx context.Context) (*domain.Season, error) {
	var archived *domain.Season
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		season, err := tx.Season.GetCurrent(ctx)
		if err != nil {
			return ErrNoCurrentSeason
		}

		now := time.Now()
		season.Totals = datatypes.NewJSONType(domain.WeightedTotals(season.Totals.Data()))
		season.Status = domain.SeasonArchived
		season.ArchivedAt = &now
		if err := tx.Season.Update(ctx, season); err != nil {
			return err
		}

		next := &domain.Season{
			ID:        uuid.New(),
			Status:    domain.SeasonCurrent,
			Totals:    datatypes.NewJSONType(domain.EmptyTotals()),
			StartedAt: now,
		}
		if err := tx.Season.Create(ctx, next); err != nil {
			return err
		}

		archived = season
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}
