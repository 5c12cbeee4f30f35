package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mossy-p/ballo/internal/models"
)

func parkInput(name string) models.ParkInput {
	return models.ParkInput{
		Name:         name,
		Location:     models.Location{Address: "10 Court St"},
		ContactEmail: "owner@ballo.app",
		Documents: []models.ParkDocument{
			{Type: models.DocumentOwnershipProof, URL: "https://files.ballo.app/deed.pdf"},
		},
	}
}

func TestSubmitPark(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	p, err := f.parks.SubmitPark(ctx, f.owner, parkInput("Hillside"))
	if err != nil {
		t.Fatalf("SubmitPark() error = %v", err)
	}
	if p.VerificationStatus != models.VerificationPending {
		t.Errorf("status = %s, want pending", p.VerificationStatus)
	}
	if p.Owner.UserID != f.owner.ID || p.Owner.Name != f.owner.Name {
		t.Errorf("owner = %+v", p.Owner)
	}
	if len(p.Documents) != 1 || p.Documents[0].UploadedAt.IsZero() {
		t.Errorf("documents = %+v, want stamped upload time", p.Documents)
	}
	if p.Amenities == nil {
		t.Errorf("amenities should be an empty list, got nil")
	}

	pending, err := f.parks.ListPendingParks(ctx)
	if err != nil {
		t.Fatalf("ListPendingParks() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != p.ID {
		t.Fatalf("ListPendingParks() = %+v", pending)
	}

	owned, err := f.parks.ListOwnerParks(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("ListOwnerParks() error = %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("ListOwnerParks() returned %d parks, want 2", len(owned))
	}
}

func TestSubmitParkRequiresOwnerRole(t *testing.T) {
	f := setupFixture(t)
	plain := &models.User{ID: "u1", Name: "Pat", Role: models.RoleUser}
	if _, err := f.parks.SubmitPark(context.Background(), plain, parkInput("Nope")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("SubmitPark() error = %v, want ErrForbidden", err)
	}
}

func TestSubmitParkValidation(t *testing.T) {
	f := setupFixture(t)
	in := parkInput("Broken")
	in.Location.Address = ""
	if _, err := f.parks.SubmitPark(context.Background(), f.owner, in); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SubmitPark() error = %v, want ErrInvalidArgument", err)
	}

	in = parkInput("Bad doc")
	in.Documents = []models.ParkDocument{{Type: "selfie", URL: "x"}}
	if _, err := f.parks.SubmitPark(context.Background(), f.owner, in); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SubmitPark(bad document) error = %v, want ErrInvalidArgument", err)
	}
}

func TestReviewPark(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p, err := f.parks.SubmitPark(ctx, f.owner, parkInput("Lakeside"))
	if err != nil {
		t.Fatalf("SubmitPark() error = %v", err)
	}

	if _, err := f.parks.ReviewPark(ctx, f.owner, p.ID, models.ReviewInput{Decision: models.VerificationVerified}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ReviewPark(non-admin) error = %v, want ErrForbidden", err)
	}
	if _, err := f.parks.ReviewPark(ctx, f.admin, p.ID, models.ReviewInput{Decision: models.VerificationPending}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ReviewPark(pending) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := f.parks.ReviewPark(ctx, f.admin, "missing", models.ReviewInput{Decision: models.VerificationVerified}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReviewPark(missing) error = %v, want ErrNotFound", err)
	}

	rejected, err := f.parks.ReviewPark(ctx, f.admin, p.ID, models.ReviewInput{
		Decision: models.VerificationRejected,
		Notes:    "deed is illegible",
	})
	if err != nil {
		t.Fatalf("ReviewPark() error = %v", err)
	}
	if rejected.VerificationStatus != models.VerificationRejected || rejected.VerificationNotes != "deed is illegible" {
		t.Fatalf("ReviewPark() = %+v", rejected)
	}

	verified, err := f.parks.ReviewPark(ctx, f.admin, p.ID, models.ReviewInput{Decision: models.VerificationVerified})
	if err != nil {
		t.Fatalf("second ReviewPark() error = %v", err)
	}
	if verified.VerificationStatus != models.VerificationVerified {
		t.Fatalf("status = %s, want verified", verified.VerificationStatus)
	}

	pending, _ := f.parks.ListPendingParks(ctx)
	if len(pending) != 0 {
		t.Fatalf("pending parks = %d, want 0", len(pending))
	}
}

func TestUpdatePark(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	in := parkInput("Riverside Courts Renamed")
	in.Amenities = []string{"lights", "water"}
	in.OperatingHours = map[string]models.OpeningHours{"monday": {Open: "08:00", Close: "22:00"}}

	updated, err := f.parks.UpdatePark(ctx, f.owner, f.park.ID, in)
	if err != nil {
		t.Fatalf("UpdatePark() error = %v", err)
	}
	if updated.Name != in.Name || len(updated.Amenities) != 2 || updated.OperatingHours["monday"].Close != "22:00" {
		t.Fatalf("UpdatePark() = %+v", updated)
	}
	if updated.VerificationStatus != models.VerificationVerified {
		t.Fatalf("UpdatePark() changed verification to %s", updated.VerificationStatus)
	}
	if updated.Owner.UserID != f.owner.ID {
		t.Fatalf("UpdatePark() changed owner to %+v", updated.Owner)
	}

	if _, err := f.parks.UpdatePark(ctx, f.admin, f.park.ID, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("UpdatePark(admin) error = %v, want ErrForbidden", err)
	}
}

func TestDeletePark(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p, err := f.parks.SubmitPark(ctx, f.owner, parkInput("Temporary"))
	if err != nil {
		t.Fatalf("SubmitPark() error = %v", err)
	}

	stranger := &models.User{ID: "u9", Role: models.RoleParkOwner}
	if err := f.parks.DeletePark(ctx, stranger, p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("DeletePark(stranger) error = %v, want ErrForbidden", err)
	}
	if err := f.parks.DeletePark(ctx, f.admin, p.ID); err != nil {
		t.Fatalf("DeletePark(admin) error = %v", err)
	}
	if _, err := f.parks.GetPark(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPark() after delete error = %v, want ErrNotFound", err)
	}
	if err := f.parks.DeletePark(ctx, f.owner, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeletePark() twice error = %v, want ErrNotFound", err)
	}
}
