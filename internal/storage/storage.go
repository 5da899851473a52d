package storage

import (
	"context"
	"errors"
	"time"

	"github.com/codetrellis/userbase/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict on insert.
var ErrAlreadyExists = errors.New("record already exists")

// UserUpdate names the mutable columns of a user row; nil fields are left
// untouched.
type UserUpdate struct {
	Firstname *string
	Lastname  *string
	Password  *string
	Role      *string
	UpdatedBy *string
}

// UserStore captures persistence operations needed by the handlers and the
// authentication middleware. Emails passed in are expected to be normalized
// already, except TouchActivity, which takes the token claim verbatim.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateFields(ctx context.Context, email string, update UserUpdate) (int64, error)
	// TouchActivity sets the row's last-activity timestamp; found is false
	// when no row matched the email.
	TouchActivity(ctx context.Context, email string, at time.Time) (found bool, err error)
	DeleteByEmail(ctx context.Context, email string) (found bool, err error)
	DeleteAll(ctx context.Context) error
}
