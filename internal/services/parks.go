package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mossy-p/ballo/internal/apperrors"
	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/repository"
	"github.com/mossy-p/ballo/internal/store"
)

// ParkService handles park registration and admin verification.
type ParkService struct {
	parks *repository.Parks
	opts  Options
}

func NewParkService(s store.Store, opts Options) *ParkService {
	return &ParkService{
		parks: repository.NewParks(s),
		opts:  opts,
	}
}

// SubmitPark registers a park for owner. It always starts pending.
func (s *ParkService) SubmitPark(ctx context.Context, owner *models.User, in models.ParkInput) (*models.Park, error) {
	if !owner.Role.CanOwnParks() {
		return nil, apperrors.New(apperrors.CodeForbidden, "only park owners can register parks")
	}
	if err := in.Validate(); err != nil {
		return nil, invalidArgument(err)
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	now := s.opts.now()
	park, err := s.parks.Create(ctx, &models.Park{
		Name:     in.Name,
		Location: in.Location,
		Owner: models.ParkOwner{
			UserID:       owner.ID,
			Name:         owner.Name,
			ContactEmail: in.ContactEmail,
			Phone:        in.Phone,
		},
		Amenities:          nonNil(in.Amenities),
		VerificationStatus: models.VerificationPending,
		Documents:          stampDocuments(in.Documents, now),
		OperatingHours:     in.OperatingHours,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, storeError(err, "park", "")
	}

	log.Printf("Park submitted: %s (%s) by user %s", park.ID, park.Name, owner.ID)
	return park, nil
}

func (s *ParkService) GetPark(ctx context.Context, parkID string) (*models.Park, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	p, err := s.parks.Get(ctx, parkID)
	if err != nil {
		return nil, storeError(err, "park", parkID)
	}
	return p, nil
}

// ListOwnerParks returns every park registered by ownerID.
func (s *ParkService) ListOwnerParks(ctx context.Context, ownerID string) ([]models.Park, error) {
	return s.find(ctx, store.Where("owner.userId", ownerID))
}

// ListPendingParks returns the parks waiting for admin review.
func (s *ParkService) ListPendingParks(ctx context.Context) ([]models.Park, error) {
	return s.find(ctx, store.Where("verificationStatus", string(models.VerificationPending)))
}

func (s *ParkService) find(ctx context.Context, pred store.Predicate) ([]models.Park, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	parks, err := s.parks.Find(ctx, pred)
	if err != nil {
		return nil, storeError(err, "park", "")
	}
	return parks, nil
}

// ReviewPark records an admin decision. Only verified and rejected are
// accepted; a later review overwrites an earlier one.
func (s *ParkService) ReviewPark(ctx context.Context, reviewer *models.User, parkID string, in models.ReviewInput) (*models.Park, error) {
	if reviewer.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.CodeForbidden, "only admins can review parks")
	}
	if in.Decision != models.VerificationVerified && in.Decision != models.VerificationRejected {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("invalid review decision %q", in.Decision), map[string]string{"park_id": parkID})
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	park, err := retryOnConflict(ctx, s.opts, func() (*models.Park, error) {
		p, err := s.parks.Get(ctx, parkID)
		if err != nil {
			return nil, err
		}
		return s.parks.Update(ctx, p, store.Patch{
			"verificationStatus": in.Decision,
			"verificationNotes":  in.Notes,
			"updatedAt":          s.opts.now(),
		})
	})
	if err != nil {
		return nil, storeError(err, "park", parkID)
	}

	log.Printf("Park %s reviewed by %s: %s", parkID, reviewer.ID, park.VerificationStatus)
	return park, nil
}

// UpdatePark edits the owner-controlled fields of a park. Verification
// status is never touched here.
func (s *ParkService) UpdatePark(ctx context.Context, caller *models.User, parkID string, in models.ParkInput) (*models.Park, error) {
	if err := in.Validate(); err != nil {
		return nil, invalidArgument(err)
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	park, err := retryOnConflict(ctx, s.opts, func() (*models.Park, error) {
		p, err := s.parks.Get(ctx, parkID)
		if err != nil {
			return nil, err
		}
		if p.Owner.UserID != caller.ID {
			return nil, apperrors.WithMetadata(apperrors.CodeForbidden, "only the park owner can edit it",
				map[string]string{"park_id": parkID})
		}
		now := s.opts.now()
		return s.parks.Update(ctx, p, store.Patch{
			"name":               in.Name,
			"location":           in.Location,
			"owner.contactEmail": in.ContactEmail,
			"owner.phone":        in.Phone,
			"amenities":          nonNil(in.Amenities),
			"documents":          stampDocuments(in.Documents, now),
			"operatingHours":     in.OperatingHours,
			"updatedAt":          now,
		})
	})
	if err != nil {
		return nil, storeError(err, "park", parkID)
	}
	return park, nil
}

// DeletePark removes a park. Its owner or an admin may delete it.
func (s *ParkService) DeletePark(ctx context.Context, caller *models.User, parkID string) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	p, err := s.parks.Get(ctx, parkID)
	if err != nil {
		return storeError(err, "park", parkID)
	}
	if p.Owner.UserID != caller.ID && caller.Role != models.RoleAdmin {
		return apperrors.WithMetadata(apperrors.CodeForbidden, "only the park owner can delete it",
			map[string]string{"park_id": parkID})
	}
	if err := s.parks.Delete(ctx, parkID); err != nil {
		return storeError(err, "park", parkID)
	}

	log.Printf("Park deleted: %s by user %s", parkID, caller.ID)
	return nil
}

func stampDocuments(docs []models.ParkDocument, now time.Time) []models.ParkDocument {
	out := make([]models.ParkDocument, len(docs))
	for i, d := range docs {
		if d.UploadedAt.IsZero() {
			d.UploadedAt = now
		}
		out[i] = d
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
