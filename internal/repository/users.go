package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/store"
)

// userRecord is the stored shape of a user, which unlike the API shape
// includes the password hash.
type userRecord struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

type emailIndex struct {
	UserID string `json:"userId"`
}

// Users reads and writes user documents and the email -> user index.
type Users struct {
	store store.Store
}

func NewUsers(s store.Store) *Users {
	return &Users{store: s}
}

// NormalizeEmail is the key used by the email index.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// releaseTimeout bounds the cleanup of an email claim after a failed create.
const releaseTimeout = 2 * time.Second

// Create stores u. The email is claimed first so two concurrent sign-ups
// with the same address cannot both succeed; the loser gets
// store.ErrAlreadyExists. A claim whose user document is missing (left by
// an earlier create that died half way) is taken over.
func (r *Users) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.Email = NormalizeEmail(u.Email)

	id := uuid.New().String()
	if err := r.claimEmail(ctx, u.Email, id); err != nil {
		return nil, err
	}

	rec := userRecord{User: *u, PasswordHash: u.PasswordHash}
	data, err := encode(rec)
	if err != nil {
		r.releaseEmail(ctx, u.Email, id)
		return nil, err
	}
	doc, err := r.store.Create(ctx, store.CollectionUsers, id, data)
	if err != nil {
		r.releaseEmail(ctx, u.Email, id)
		return nil, err
	}

	// A concurrent sign-up may have taken the claim over before our user
	// document existed. The claim decides who owns the address.
	owner, err := r.emailOwner(ctx, u.Email)
	if err != nil || owner.UserID != id {
		if delErr := r.store.Delete(context.WithoutCancel(ctx), store.CollectionUsers, id); delErr != nil {
			log.Printf("Failed to remove orphaned user %s: %v", id, delErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, store.ErrAlreadyExists
	}
	return decodeUser(doc)
}

// claimEmail writes the email index entry for userID, taking over an entry
// that points to a user that does not exist.
func (r *Users) claimEmail(ctx context.Context, email, userID string) error {
	idx, err := encode(emailIndex{UserID: userID})
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, store.CollectionEmails, email, idx)
	if !errors.Is(err, store.ErrAlreadyExists) {
		return err
	}

	doc, err := r.store.Get(ctx, store.CollectionEmails, email)
	if errors.Is(err, store.ErrNotFound) {
		// Released between our create and get.
		return store.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	prev, err := decodeEmailIndex(doc)
	if err != nil {
		return err
	}
	_, err = r.store.Get(ctx, store.CollectionUsers, prev.UserID)
	switch {
	case err == nil:
		return store.ErrAlreadyExists
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	log.Printf("Taking over stale email claim %s (user %s missing)", email, prev.UserID)
	_, err = r.store.Update(ctx, store.CollectionEmails, email, store.Patch{"userId": userID}, doc.Version)
	if errors.Is(err, store.ErrVersionConflict) || errors.Is(err, store.ErrNotFound) {
		return store.ErrAlreadyExists
	}
	return err
}

// releaseEmail drops the claim if it still belongs to userID. It runs
// detached from ctx so a timed-out create still cleans up after itself.
func (r *Users) releaseEmail(ctx context.Context, email, userID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	owner, err := r.emailOwner(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err == nil && owner.UserID != userID {
		return
	}
	if err == nil {
		err = r.store.Delete(ctx, store.CollectionEmails, email)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Failed to release email claim for %s: %v", email, err)
	}
}

func (r *Users) emailOwner(ctx context.Context, email string) (*emailIndex, error) {
	doc, err := r.store.Get(ctx, store.CollectionEmails, email)
	if err != nil {
		return nil, err
	}
	return decodeEmailIndex(doc)
}

func decodeEmailIndex(doc *store.Document) (*emailIndex, error) {
	var idx emailIndex
	if err := json.Unmarshal(doc.Data, &idx); err != nil || idx.UserID == "" {
		return nil, fmt.Errorf("%w: email index %s", ErrInvalidRecord, doc.ID)
	}
	return &idx, nil
}

func (r *Users) Get(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	return decodeUser(doc)
}

// GetByEmail resolves the email index and loads the user. An index entry
// whose user is missing reads as store.ErrNotFound.
func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	idx, err := r.emailOwner(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, idx.UserID)
}

func (r *Users) Update(ctx context.Context, u *models.User, patch store.Patch) (*models.User, error) {
	doc, err := r.store.Update(ctx, store.CollectionUsers, u.ID, patch, u.Version)
	if err != nil {
		return nil, err
	}
	return decodeUser(doc)
}

func decodeUser(doc *store.Document) (*models.User, error) {
	var rec userRecord
	if err := decodeInto(doc, &rec); err != nil {
		return nil, err
	}
	u := rec.User
	u.PasswordHash = rec.PasswordHash
	u.ID = doc.ID
	u.Version = doc.Version
	return &u, nil
}
