package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/mossy-p/ballo/internal/apperrors"
	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/repository"
	"github.com/mossy-p/ballo/internal/store"
)

// GameService owns the roster and status invariants of games.
type GameService struct {
	games *repository.Games
	parks *repository.Parks
	opts  Options
}

func NewGameService(s store.Store, opts Options) *GameService {
	return &GameService{
		games: repository.NewGames(s),
		parks: repository.NewParks(s),
		opts:  opts,
	}
}

// CreateGame schedules a game at a verified park owned by caller.
func (s *GameService) CreateGame(ctx context.Context, caller *models.User, parkID string, in models.CreateGameInput) (*models.Game, error) {
	if err := in.Validate(); err != nil {
		return nil, invalidArgument(err)
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	park, err := s.parks.Get(ctx, parkID)
	if err != nil {
		return nil, storeError(err, "park", parkID)
	}
	meta := map[string]string{"park_id": parkID}
	if park.Owner.UserID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, apperrors.WithMetadata(apperrors.CodeForbidden, "only the park owner can schedule games", meta)
	}
	if park.VerificationStatus != models.VerificationVerified {
		return nil, apperrors.WithMetadata(apperrors.CodeForbidden, fmt.Sprintf("park %s is not verified", parkID), meta)
	}

	now := s.opts.now()
	game, err := s.games.Create(ctx, &models.Game{
		ParkID:         park.ID,
		ParkName:       park.Name,
		Date:           in.Date,
		Time:           in.Time,
		MaxPlayers:     in.MaxPlayers,
		CurrentPlayers: []models.Player{},
		Level:          in.Level,
		Status:         models.GameStatusUpcoming,
		Description:    in.Description,
		Price:          in.Price,
		CreatedBy:      caller.Ref(),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, storeError(err, "game", "")
	}

	log.Printf("Game created: %s at park %s (%s %s, max %d) by user %s",
		game.ID, park.ID, game.Date, game.Time, game.MaxPlayers, caller.ID)
	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, storeError(err, "game", gameID)
	}
	return g, nil
}

// ListUpcomingGames returns upcoming games, optionally on a single date.
func (s *GameService) ListUpcomingGames(ctx context.Context, date string) ([]models.Game, error) {
	pred := store.Where("status", string(models.GameStatusUpcoming))
	if date != "" {
		pred = store.All(pred, store.Where("date", date))
	}
	return s.list(ctx, pred, nil)
}

// ListParkGames returns the upcoming games of a park.
func (s *GameService) ListParkGames(ctx context.Context, parkID string) ([]models.Game, error) {
	return s.list(ctx, store.All(
		store.Where("parkId", parkID),
		store.Where("status", string(models.GameStatusUpcoming)),
	), nil)
}

// ListUserGames returns the upcoming games whose roster contains userID.
func (s *GameService) ListUserGames(ctx context.Context, userID string) ([]models.Game, error) {
	return s.list(ctx, store.Where("status", string(models.GameStatusUpcoming)), func(g *models.Game) bool {
		return g.HasPlayer(userID)
	})
}

func (s *GameService) list(ctx context.Context, pred store.Predicate, keep func(*models.Game) bool) ([]models.Game, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	games, err := s.games.Find(ctx, pred, keep)
	if err != nil {
		return nil, storeError(err, "game", "")
	}
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Date != games[j].Date {
			return games[i].Date < games[j].Date
		}
		return games[i].Time < games[j].Time
	})
	return games, nil
}

// JoinGame appends player to the roster. Duplicate membership is reported
// before capacity; both checks are repeated against the latest version on
// every retry.
func (s *GameService) JoinGame(ctx context.Context, gameID string, player models.UserRef) ([]models.Player, error) {
	if player.UserID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "caller identity is required")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	meta := map[string]string{"game_id": gameID, "user_id": player.UserID}
	game, err := retryOnConflict(ctx, s.opts, func() (*models.Game, error) {
		g, err := s.games.Get(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if g.Status != models.GameStatusUpcoming {
			return nil, apperrors.WithMetadata(apperrors.CodeGameNotOpen,
				fmt.Sprintf("game %s is %s", gameID, g.Status), meta)
		}
		if g.HasPlayer(player.UserID) {
			return nil, apperrors.WithMetadata(apperrors.CodeAlreadyJoined,
				fmt.Sprintf("user %s already joined game %s", player.UserID, gameID), meta)
		}
		if g.Full() {
			return nil, apperrors.WithMetadata(apperrors.CodeGameFull,
				fmt.Sprintf("game %s is full (%d/%d)", gameID, len(g.CurrentPlayers), g.MaxPlayers), meta)
		}

		now := s.opts.now()
		return s.games.Update(ctx, g, store.Patch{
			"currentPlayers": g.WithPlayer(models.Player{UserID: player.UserID, Name: player.Name, JoinedAt: now}),
			"updatedAt":      now,
		})
	})
	if err != nil {
		return nil, storeError(err, "game", gameID)
	}

	log.Printf("Player %s joined game %s - %d/%d players",
		player.UserID, gameID, len(game.CurrentPlayers), game.MaxPlayers)
	return game.CurrentPlayers, nil
}

// LeaveGame removes userID from the roster. A user who is not on the roster
// gets ErrNotJoined and nothing is written.
func (s *GameService) LeaveGame(ctx context.Context, gameID, userID string) ([]models.Player, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "caller identity is required")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	meta := map[string]string{"game_id": gameID, "user_id": userID}
	game, err := retryOnConflict(ctx, s.opts, func() (*models.Game, error) {
		g, err := s.games.Get(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if !g.HasPlayer(userID) {
			return nil, apperrors.WithMetadata(apperrors.CodeNotJoined,
				fmt.Sprintf("user %s is not in game %s", userID, gameID), meta)
		}
		return s.games.Update(ctx, g, store.Patch{
			"currentPlayers": g.WithoutPlayer(userID),
			"updatedAt":      s.opts.now(),
		})
	})
	if err != nil {
		return nil, storeError(err, "game", gameID)
	}

	log.Printf("Player %s left game %s - %d/%d players",
		userID, gameID, len(game.CurrentPlayers), game.MaxPlayers)
	return game.CurrentPlayers, nil
}

// CancelGame moves an upcoming game to cancelled. Cancelling a cancelled
// game succeeds without a write.
func (s *GameService) CancelGame(ctx context.Context, gameID string) error {
	_, err := s.transition(ctx, gameID, models.GameStatusCancelled)
	return err
}

// StartGame moves an upcoming game to in-progress.
func (s *GameService) StartGame(ctx context.Context, gameID string) (*models.Game, error) {
	return s.transition(ctx, gameID, models.GameStatusInProgress)
}

// CompleteGame moves an in-progress game to completed.
func (s *GameService) CompleteGame(ctx context.Context, gameID string) (*models.Game, error) {
	return s.transition(ctx, gameID, models.GameStatusCompleted)
}

func (s *GameService) transition(ctx context.Context, gameID string, next models.GameStatus) (*models.Game, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	game, err := retryOnConflict(ctx, s.opts, func() (*models.Game, error) {
		g, err := s.games.Get(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if next == models.GameStatusCancelled && g.Status == models.GameStatusCancelled {
			return g, nil
		}
		if !g.Status.CanTransitionTo(next) {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidTransition,
				fmt.Sprintf("game %s cannot move from %s to %s", gameID, g.Status, next),
				map[string]string{"game_id": gameID, "from": string(g.Status), "to": string(next)})
		}
		return s.games.Update(ctx, g, store.Patch{
			"status":    next,
			"updatedAt": s.opts.now(),
		})
	})
	if err != nil {
		return nil, storeError(err, "game", gameID)
	}

	log.Printf("Game %s is now %s", gameID, game.Status)
	return game, nil
}

// CanManageGame reports whether caller may change the status of a game:
// its creator, the owner of its park, or an admin.
func (s *GameService) CanManageGame(ctx context.Context, caller *models.User, gameID string) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return storeError(err, "game", gameID)
	}
	if caller.Role == models.RoleAdmin || g.CreatedBy.UserID == caller.ID {
		return nil
	}
	park, err := s.parks.Get(ctx, g.ParkID)
	if err == nil && park.Owner.UserID == caller.ID {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeForbidden, "only the game organiser can change its status",
		map[string]string{"game_id": gameID})
}
