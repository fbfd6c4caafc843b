package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidMood     = errors.New("mood level must be an integer between -2 and 2")
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileService interface {
	UpsertProfile(ctx context.Context, profile domain.UserProfile) (*domain.UserProfile, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	// RecordMood stores a mood sample; a zero recordedAt means now.
	RecordMood(ctx context.Context, userID primitive.ObjectID, level int, recordedAt time.Time) (*domain.MoodSample, error)
	// LatestMood returns the newest sample, or a neutral unsaved sample when there is none.
	LatestMood(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	moodRepo    repository.MoodRepository
	now         func() time.Time
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository, moodRepo repository.MoodRepository) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		moodRepo:    moodRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UpsertProfile replaces the user's profile after validating it.
func (s *profileService) UpsertProfile(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error) {
	if err := validateProfile(&p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	if err := s.profileRepo.Upsert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func validateProfile(p *domain.UserProfile) error {
	if p.Age < 1 {
		return fmt.Errorf("%w: age must be a whole number >= 1", ErrValidationFailed)
	}
	switch p.Sex {
	case domain.SexMale, domain.SexFemale, domain.SexOther, domain.SexUnset:
	default:
		return fmt.Errorf("%w: sex must be M, F, X or empty", ErrValidationFailed)
	}
	if p.Height <= 0 {
		return fmt.Errorf("%w: height must be a positive number", ErrValidationFailed)
	}
	if p.HeightUnits != "cm" && p.HeightUnits != "in" {
		return fmt.Errorf("%w: height units must be cm or in", ErrValidationFailed)
	}
	if p.Weight != nil {
		if *p.Weight <= 0 {
			return fmt.Errorf("%w: weight must be positive", ErrValidationFailed)
		}
		if !oneOf(weightUnits, p.WeightUnits) {
			return fmt.Errorf("%w: weight units must be kg or lb", ErrValidationFailed)
		}
	} else {
		p.WeightUnits = ""
	}
	if p.TargetWeight != nil && *p.TargetWeight <= 0 {
		return fmt.Errorf("%w: target weight must be positive", ErrValidationFailed)
	}
	for _, g := range p.BodyGoals {
		if !domain.IsBodyGoal(g) {
			return fmt.Errorf("%w: unknown body goal %q", ErrValidationFailed, g)
		}
	}
	return nil
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *profileService) RecordMood(ctx context.Context, userID primitive.ObjectID, level int, recordedAt time.Time) (*domain.MoodSample, error) {
	if !domain.ValidMoodLevel(level) {
		return nil, ErrInvalidMood
	}
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	mood := &domain.MoodSample{UserID: userID, MoodLevel: level, RecordedAt: recordedAt}
	id, err := s.moodRepo.Create(ctx, mood)
	if err != nil {
		return nil, err
	}
	mood.ID = id
	return mood, nil
}

func (s *profileService) LatestMood(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error) {
	mood, err := s.moodRepo.GetLatest(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.MoodSample{UserID: userID, MoodLevel: 0, RecordedAt: s.now()}, nil
	}
	return mood, err
}
