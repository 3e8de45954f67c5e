package services

import (
	"context"
	"errors"
	"strings"

	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transactor runs fn atomically when the database supports it. The context handed to fn
// must be passed to every repository call that should join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// directTransactor runs fn without a transaction.
type directTransactor struct{}

func (directTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func transactorOrDirect(tx Transactor) Transactor {
	if tx == nil {
		return directTransactor{}
	}
	return tx
}

// repoError translates repository sentinels into client facing errors.
func repoError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, interfaces.ErrNotFound):
		return utils.NewNotFoundError(resource)
	case errors.Is(err, interfaces.ErrDuplicateKey):
		return utils.NewConflictError(resource + " already exists")
	case errors.Is(err, interfaces.ErrInsufficientStock):
		return utils.NewUnprocessableError("insufficient stock")
	case errors.Is(err, interfaces.ErrUsageLimitReached):
		return utils.NewUnprocessableError("coupon usage limit reached")
	case errors.Is(err, interfaces.ErrStaleStatus):
		return utils.NewConflictError(resource + " was modified concurrently")
	default:
		return utils.NewInternalError(err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, interfaces.ErrNotFound)
}

func errNothingToUpdate() error {
	return utils.NewValidationError(utils.ErrNothingToUpdate, nil)
}

// setIf copies value into updates under key when it was supplied.
func setIf[T any](updates map[string]interface{}, key string, value *T) {
	if value != nil {
		updates[key] = *value
	}
}

// objectIDPtr parses an already validated hex id. Empty input yields nil.
func objectIDPtr(hex string) *primitive.ObjectID {
	if hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func objectIDs(hexes []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		if id := objectIDPtr(hex); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// slugOrDefault keeps an explicit slug and derives one from name otherwise.
func slugOrDefault(slug, name string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return slug
	}
	return utils.GenerateSlug(name)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID primitive.ObjectID
	Role   string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == utils.RoleAdmin
}

func (a *Actor) IDPtr() *primitive.ObjectID {
	if a == nil {
		return nil
	}
	id := a.UserID
	return &id
}
