package service

import (
	"context"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = *u
	return u.ID, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, identifier) || u.Username == identifier {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeExerciseRepo struct {
	repository.ExerciseRepository
	byID map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo(exercises ...domain.Exercise) *fakeExerciseRepo {
	f := &fakeExerciseRepo{byID: map[primitive.ObjectID]domain.Exercise{}}
	for _, e := range exercises {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeExerciseRepo) Create(ctx context.Context, e *domain.Exercise) (primitive.ObjectID, error) {
	for _, existing := range f.byID {
		if existing.Name == e.Name {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	e.ID = primitive.NewObjectID()
	f.byID[e.ID] = *e
	return e.ID, nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeExerciseRepo) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	for _, e := range f.byID {
		if e.Name == name {
			e := e
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeExerciseRepo) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeLoggedExerciseRepo struct {
	logs []domain.LoggedExercise
}

func (f *fakeLoggedExerciseRepo) Create(ctx context.Context, l *domain.LoggedExercise) (primitive.ObjectID, error) {
	l.ID = primitive.NewObjectID()
	f.logs = append(f.logs, *l)
	return l.ID, nil
}

func (f *fakeLoggedExerciseRepo) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.LoggedExercise, error) {
	var out []domain.LoggedExercise
	for _, l := range f.logs {
		if l.UserID == userID && l.ExerciseID == exerciseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoggedExerciseRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, filter repository.LoggedExerciseFilter) ([]domain.LoggedExercise, error) {
	var out []domain.LoggedExercise
	for _, l := range f.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeRecommendedRepo struct {
	recs []domain.RecommendedExercise
}

func (f *fakeRecommendedRepo) Create(ctx context.Context, r *domain.RecommendedExercise) (primitive.ObjectID, error) {
	r.ID = primitive.NewObjectID()
	f.recs = append(f.recs, *r)
	return r.ID, nil
}

func (f *fakeRecommendedRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RecommendedExercise, error) {
	for _, r := range f.recs {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRecommendedRepo) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.RecommendedExercise, error) {
	var out []domain.RecommendedExercise
	for _, r := range f.recs {
		if r.UserID == userID && r.ExerciseID == exerciseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecommendedRepo) SetGoodRecommendation(ctx context.Context, id, userID primitive.ObjectID, good bool) error {
	for i := range f.recs {
		if f.recs[i].ID == id && f.recs[i].UserID == userID {
			f.recs[i].GoodRecommendation = good
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeConsumableRepo struct {
	byName  map[string]domain.Consumable
	dupes   map[string]bool
	upserts int
}

func newFakeConsumableRepo(items ...domain.Consumable) *fakeConsumableRepo {
	f := &fakeConsumableRepo{byName: map[string]domain.Consumable{}, dupes: map[string]bool{}}
	for _, c := range items {
		f.byName[c.Name] = c
	}
	return f
}

func (f *fakeConsumableRepo) Upsert(ctx context.Context, c *domain.Consumable) error {
	f.upserts++
	f.byName[c.Name] = *c
	return nil
}

func (f *fakeConsumableRepo) GetByName(ctx context.Context, name string) (*domain.Consumable, error) {
	if f.dupes[name] {
		return nil, repository.ErrDuplicate
	}
	if c, ok := f.byName[name]; ok {
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeConsumableRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byName)), nil
}

func (f *fakeConsumableRepo) Sample(ctx context.Context, limit int, keep func() bool) ([]domain.Consumable, error) {
	names := make([]string, 0, len(f.byName))
	for n := range f.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	var out []domain.Consumable
	for _, n := range names {
		if len(out) >= limit {
			break
		}
		if keep() {
			out = append(out, f.byName[n])
		}
	}
	return out, nil
}

type fakeLoggedConsumableRepo struct {
	logs []domain.LoggedConsumable
}

func (f *fakeLoggedConsumableRepo) Create(ctx context.Context, l *domain.LoggedConsumable) (primitive.ObjectID, error) {
	l.ID = primitive.NewObjectID()
	f.logs = append(f.logs, *l)
	return l.ID, nil
}

func (f *fakeLoggedConsumableRepo) ListByUserBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.LoggedConsumable, error) {
	var out []domain.LoggedConsumable
	for _, l := range f.logs {
		if l.UserID == userID && !l.DateLogged.Before(from) && l.DateLogged.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[primitive.ObjectID]domain.UserProfile{}}
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type fakeMoodRepo struct {
	moods   []domain.MoodSample
	creates int
}

func (f *fakeMoodRepo) Create(ctx context.Context, m *domain.MoodSample) (primitive.ObjectID, error) {
	f.creates++
	m.ID = primitive.NewObjectID()
	f.moods = append(f.moods, *m)
	return m.ID, nil
}

func (f *fakeMoodRepo) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error) {
	var latest *domain.MoodSample
	for i := range f.moods {
		m := f.moods[i]
		if m.UserID == userID && (latest == nil || m.RecordedAt.After(latest.RecordedAt)) {
			latest = &m
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func durPtr(d time.Duration) *time.Duration { return &d }
