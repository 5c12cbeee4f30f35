package handlers

import (
	"net/http"
	"testing"

	"github.com/mossy-p/ballo/internal/models"
)

func TestParkVerificationFlow(t *testing.T) {
	e := newTestEnv(t)
	ownerToken, owner := e.register("owner@ballo.app", "Olga")
	adminToken, _ := e.register("admin@ballo.app", "Root")

	in := models.ParkInput{
		Name:         "Hillside",
		Location:     models.Location{Address: "5 Hill St"},
		ContactEmail: "owner@ballo.app",
	}

	// Plain users cannot submit parks.
	e.expectError(e.do(http.MethodPost, "/api/parks", ownerToken, in), http.StatusForbidden, "FORBIDDEN")

	var upgraded models.User
	e.expect(e.do(http.MethodPost, "/api/me/park-owner", ownerToken, nil), http.StatusOK, &upgraded)
	if upgraded.Role != models.RoleParkOwner {
		t.Fatalf("role = %s, want park_owner", upgraded.Role)
	}

	var park models.Park
	e.expect(e.do(http.MethodPost, "/api/parks", ownerToken, in), http.StatusCreated, &park)
	if park.VerificationStatus != models.VerificationPending || park.Owner.UserID != owner.ID {
		t.Fatalf("submitted park = %+v", park)
	}

	e.expectError(e.do(http.MethodGet, "/api/admin/parks/pending", ownerToken, nil), http.StatusForbidden, "FORBIDDEN")

	var pending []models.Park
	e.expect(e.do(http.MethodGet, "/api/admin/parks/pending", adminToken, nil), http.StatusOK, &pending)
	if len(pending) != 1 || pending[0].ID != park.ID {
		t.Fatalf("pending = %+v", pending)
	}

	e.expectError(e.do(http.MethodPost, "/api/admin/parks/"+park.ID+"/review", adminToken, models.ReviewInput{
		Decision: models.VerificationPending,
	}), http.StatusBadRequest, "INVALID_ARGUMENT")

	var reviewed models.Park
	e.expect(e.do(http.MethodPost, "/api/admin/parks/"+park.ID+"/review", adminToken, models.ReviewInput{
		Decision: models.VerificationRejected, Notes: "missing deed",
	}), http.StatusOK, &reviewed)
	if reviewed.VerificationStatus != models.VerificationRejected || reviewed.VerificationNotes != "missing deed" {
		t.Fatalf("reviewed park = %+v", reviewed)
	}

	var mine []models.Park
	e.expect(e.do(http.MethodGet, "/api/me/parks", ownerToken, nil), http.StatusOK, &mine)
	if len(mine) != 1 || mine[0].ID != park.ID {
		t.Fatalf("my parks = %+v", mine)
	}
}

func TestUpdateAndDeletePark(t *testing.T) {
	e := newTestEnv(t)
	ownerToken, park := e.verifiedPark()
	otherToken, _ := e.register("other@ballo.app", "Other")

	in := models.ParkInput{
		Name:         "Riverside Courts North",
		Location:     models.Location{Address: "1 River Rd"},
		ContactEmail: "courts@ballo.app",
		Amenities:    []string{"lights"},
	}

	var updated models.Park
	e.expect(e.do(http.MethodPatch, "/api/parks/"+park.ID, ownerToken, in), http.StatusOK, &updated)
	if updated.Name != in.Name || updated.Owner.ContactEmail != "courts@ballo.app" {
		t.Fatalf("updated park = %+v", updated)
	}
	if updated.VerificationStatus != models.VerificationVerified {
		t.Fatalf("edit changed verification to %s", updated.VerificationStatus)
	}

	e.expectError(e.do(http.MethodPatch, "/api/parks/"+park.ID, otherToken, in), http.StatusForbidden, "FORBIDDEN")
	e.expectError(e.do(http.MethodDelete, "/api/parks/"+park.ID, otherToken, nil), http.StatusForbidden, "FORBIDDEN")

	e.expect(e.do(http.MethodDelete, "/api/parks/"+park.ID, ownerToken, nil), http.StatusOK, nil)
	e.expectError(e.do(http.MethodGet, "/api/parks/"+park.ID, "", nil), http.StatusNotFound, "NOT_FOUND")
}

func TestCreateParkValidation(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@ballo.app", "Olga")
	e.expect(e.do(http.MethodPost, "/api/me/park-owner", token, nil), http.StatusOK, nil)

	e.expectError(e.do(http.MethodPost, "/api/parks", token, map[string]any{
		"name": "No email", "location": map[string]string{"address": "x"},
	}), http.StatusBadRequest, "INVALID_ARGUMENT")
}
