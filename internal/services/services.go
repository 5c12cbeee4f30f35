// Package services implements the game roster, park verification and user
// workflows on top of the document store.
//
// Every operation runs under the configured store timeout. Writes are
// conditional on the version read; a version conflict re-reads the document
// and re-checks the invariants, up to MaxAttempts times.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/mossy-p/ballo/internal/apperrors"
	"github.com/mossy-p/ballo/internal/repository"
	"github.com/mossy-p/ballo/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound          = apperrors.New(apperrors.CodeNotFound, "not found")
	ErrAlreadyJoined     = apperrors.New(apperrors.CodeAlreadyJoined, "player already joined this game")
	ErrNotJoined         = apperrors.New(apperrors.CodeNotJoined, "player is not in this game")
	ErrGameFull          = apperrors.New(apperrors.CodeGameFull, "game is full")
	ErrGameNotOpen       = apperrors.New(apperrors.CodeGameNotOpen, "game is not open for changes")
	ErrInvalidTransition = apperrors.New(apperrors.CodeInvalidTransition, "invalid status transition")
	ErrVersionConflict   = apperrors.New(apperrors.CodeVersionConflict, "concurrent modification")
	ErrUnauthorized      = apperrors.New(apperrors.CodeUnauthorized, "unauthorized")
	ErrForbidden         = apperrors.New(apperrors.CodeForbidden, "forbidden")
	ErrStoreUnavailable  = apperrors.New(apperrors.CodeStoreUnavailable, "store unavailable")
	ErrInvalidArgument   = apperrors.New(apperrors.CodeInvalidArgument, "invalid argument")
	ErrAlreadyExists     = apperrors.New(apperrors.CodeAlreadyExists, "already exists")
)

// Options bounds store calls and conflict retries.
type Options struct {
	Timeout       time.Duration
	MaxAttempts   uint
	RetryInterval time.Duration
	PasswordCost  int
	Now           func() time.Time
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:       5 * time.Second,
		MaxAttempts:   5,
		RetryInterval: 20 * time.Millisecond,
		PasswordCost:  bcrypt.DefaultCost,
		Now:           time.Now,
	}
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o Options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.Timeout)
}

// retryOnConflict runs op until it succeeds, fails with anything other than
// store.ErrVersionConflict, or exhausts MaxAttempts.
func retryOnConflict[T any](ctx context.Context, o Options, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if o.RetryInterval > 0 {
		b.InitialInterval = o.RetryInterval
		b.MaxInterval = 10 * o.RetryInterval
	}
	attempts := o.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !errors.Is(err, store.ErrVersionConflict) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
}

// storeError converts store and repository failures into coded errors.
// Coded errors pass through unchanged.
func storeError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if e, ok := apperrors.As(err); ok {
		return e
	}
	meta := map[string]string{entity + "_id": id}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.WithMetadata(apperrors.CodeNotFound, entity+" "+id+" not found", meta)
	case errors.Is(err, store.ErrVersionConflict):
		return apperrors.WrapWithMetadata(apperrors.CodeVersionConflict, entity+" "+id+" kept changing, retry budget exhausted", meta, err)
	case errors.Is(err, store.ErrAlreadyExists):
		return apperrors.WrapWithMetadata(apperrors.CodeAlreadyExists, entity+" "+id+" already exists", meta, err)
	case errors.Is(err, repository.ErrInvalidRecord):
		return apperrors.WrapWithMetadata(apperrors.CodeInternal, "stored "+entity+" is invalid", meta, err)
	default:
		// Timeouts and transport failures: the remote write may or may not
		// have happened.
		meta["retryable"] = "true"
		return apperrors.WrapWithMetadata(apperrors.CodeStoreUnavailable, "store unavailable", meta, err)
	}
}

func invalidArgument(err error) error {
	return apperrors.New(apperrors.CodeInvalidArgument, err.Error())
}
