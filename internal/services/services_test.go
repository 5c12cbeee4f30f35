package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/store"
	"github.com/mossy-p/ballo/internal/store/memory"
	"golang.org/x/crypto/bcrypt"
)

func testOptions() Options {
	return Options{
		Timeout:       2 * time.Second,
		MaxAttempts:   10,
		RetryInterval: time.Millisecond,
		PasswordCost:  bcrypt.MinCost,
	}
}

type fixture struct {
	store *memory.Store
	games *GameService
	parks *ParkService
	users *UserService
	owner *models.User
	admin *models.User
	park  *models.Park
}

// setupFixture returns services over a fresh memory store with a verified
// park owned by owner.
func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	opts := testOptions()

	f := &fixture{
		store: s,
		games: NewGameService(s, opts),
		parks: NewParkService(s, opts),
		users: NewUserService(s, []string{"admin@ballo.app"}, opts),
	}

	var err error
	f.owner, err = f.users.Register(ctx, models.RegisterRequest{Email: "owner@ballo.app", Password: "password1", Name: "Olga"})
	if err != nil {
		t.Fatalf("Register(owner) error = %v", err)
	}
	f.owner, err = f.users.BecomeParkOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("BecomeParkOwner() error = %v", err)
	}
	f.admin, err = f.users.Register(ctx, models.RegisterRequest{Email: "admin@ballo.app", Password: "password1", Name: "Root"})
	if err != nil {
		t.Fatalf("Register(admin) error = %v", err)
	}

	park, err := f.parks.SubmitPark(ctx, f.owner, models.ParkInput{
		Name:         "Riverside Courts",
		Location:     models.Location{Address: "1 River Rd"},
		ContactEmail: "owner@ballo.app",
		Amenities:    []string{"lights"},
	})
	if err != nil {
		t.Fatalf("SubmitPark() error = %v", err)
	}
	f.park, err = f.parks.ReviewPark(ctx, f.admin, park.ID, models.ReviewInput{Decision: models.VerificationVerified})
	if err != nil {
		t.Fatalf("ReviewPark() error = %v", err)
	}
	return f
}

func (f *fixture) createGame(t *testing.T, maxPlayers int) *models.Game {
	t.Helper()
	g, err := f.games.CreateGame(context.Background(), f.owner, f.park.ID, models.CreateGameInput{
		Date:       "2026-10-20",
		Time:       "18:00",
		MaxPlayers: maxPlayers,
		Level:      models.LevelAll,
	})
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	return g
}

// conflictStore fails every update with a version conflict.
type conflictStore struct {
	store.Store
	updates atomic.Int32
}

func (s *conflictStore) Update(ctx context.Context, collection, id string, patch store.Patch, expectedVersion int64) (*store.Document, error) {
	s.updates.Add(1)
	return nil, store.ErrVersionConflict
}

// hangingStore blocks reads until the context is done.
type hangingStore struct {
	store.Store
}

func (s *hangingStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
