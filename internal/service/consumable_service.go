package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAmbiguousConsumable = errors.New("multiple consumables with the same name were found")
	ErrInvalidMacros       = errors.New("macros must map known macro keys to non-negative numbers")
)

// LogConsumableInput is a user's report of something eaten.
type LogConsumableInput struct {
	ConsumableName string
	AmountLogged   float64 // zero means one sample
	DateLogged     time.Time
	CaloriesLogged int
	MacrosLogged   map[string]float64
	SampleUnits    string // used only when the catalog entry is created by this log
}

type ConsumableService interface {
	// UpsertConsumable creates or replaces the catalog entry with the same name.
	UpsertConsumable(ctx context.Context, consumable domain.Consumable) (*domain.Consumable, error)
	// LogConsumable records intake. An unknown consumable is added to the catalog with one sample
	// equal to the logged amount.
	LogConsumable(ctx context.Context, userID primitive.ObjectID, in LogConsumableInput) (*domain.LoggedConsumable, error)
	// ListLoggedConsumables returns the user's logs for one day.
	ListLoggedConsumables(ctx context.Context, userID primitive.ObjectID, day time.Time) ([]domain.LoggedConsumable, error)
}

type consumableService struct {
	consumableRepo repository.ConsumableRepository
	loggedRepo     repository.LoggedConsumableRepository
	macros         domain.MacroVocabulary
}

// NewConsumableService creates a new instance of consumableService.
func NewConsumableService(consumableRepo repository.ConsumableRepository, loggedRepo repository.LoggedConsumableRepository, macros domain.MacroVocabulary) ConsumableService {
	return &consumableService{
		consumableRepo: consumableRepo,
		loggedRepo:     loggedRepo,
		macros:         macros,
	}
}

func (s *consumableService) UpsertConsumable(ctx context.Context, c domain.Consumable) (*domain.Consumable, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if c.SampleSize <= 0 {
		return nil, fmt.Errorf("%w: sample size must be positive", ErrValidationFailed)
	}
	if c.SampleCalories < 0 {
		return nil, fmt.Errorf("%w: sample calories must not be negative", ErrValidationFailed)
	}
	if c.SampleUnits == "" {
		c.SampleUnits = domain.DefaultSampleUnits
	}
	if c.SampleMacros != nil && !s.macros.Validate(c.SampleMacros) {
		return nil, ErrInvalidMacros
	}

	if err := s.consumableRepo.Upsert(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *consumableService) LogConsumable(ctx context.Context, userID primitive.ObjectID, in LogConsumableInput) (*domain.LoggedConsumable, error) {
	name := strings.TrimSpace(in.ConsumableName)
	if name == "" {
		return nil, fmt.Errorf("%w: consumable is required", ErrValidationFailed)
	}
	if in.DateLogged.IsZero() {
		return nil, fmt.Errorf("%w: date logged is required", ErrValidationFailed)
	}
	if in.CaloriesLogged < 0 || in.AmountLogged < 0 {
		return nil, fmt.Errorf("%w: amounts must not be negative", ErrValidationFailed)
	}
	if in.MacrosLogged != nil && !s.macros.Validate(in.MacrosLogged) {
		return nil, ErrInvalidMacros
	}
	amount := in.AmountLogged
	if amount == 0 {
		amount = 1
	}

	consumable, err := s.consumableRepo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		consumable = &domain.Consumable{
			Name:           name,
			SampleSize:     amount,
			SampleUnits:    in.SampleUnits,
			SampleCalories: in.CaloriesLogged,
		}
		if consumable.SampleUnits == "" {
			consumable.SampleUnits = domain.DefaultSampleUnits
		}
		if in.MacrosLogged != nil {
			consumable.SampleMacros = in.MacrosLogged
		}
		if err := s.consumableRepo.Upsert(ctx, consumable); err != nil {
			return nil, fmt.Errorf("create consumable %q: %w", name, err)
		}
		// The new entry's single sample is exactly what was eaten.
		amount = 1
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrAmbiguousConsumable
	case err != nil:
		return nil, err
	}

	logged := &domain.LoggedConsumable{
		UserID:         userID,
		ConsumableName: consumable.Name,
		AmountLogged:   amount,
		DateLogged:     in.DateLogged,
		CaloriesLogged: in.CaloriesLogged,
		MacrosLogged:   in.MacrosLogged,
	}
	id, err := s.loggedRepo.Create(ctx, logged)
	if err != nil {
		return nil, err
	}
	logged.ID = id
	return logged, nil
}

func (s *consumableService) ListLoggedConsumables(ctx context.Context, userID primitive.ObjectID, day time.Time) ([]domain.LoggedConsumable, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.loggedRepo.ListByUserBetween(ctx, userID, start, start.AddDate(0, 0, 1))
}
