package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/snapshot"
	"github.com/dmitrijs2005/kaizenlib/internal/common"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDeleteSelf rejects deleting the currently logged-in account.
	ErrDeleteSelf = errors.New("you cannot delete your own account")

	// ErrUserHasRecords rejects deleting a user who still authors
	// non-deleted records.
	ErrUserHasRecords = errors.New("user still authors records")
)

// NewUserInput is everything an admin provides when creating an account.
type NewUserInput struct {
	Username string
	Password string
	FullName string
	Role     models.Role
	Unit     string
}

// UserService manages library accounts. All operations are admin-only.
type UserService struct {
	gw     gateway.Gateway
	sync   *snapshot.Synchronizer
	logger logging.Logger
}

func NewUserService(gw gateway.Gateway, sync *snapshot.Synchronizer, logger logging.Logger) *UserService {
	return &UserService{gw: gw, sync: sync, logger: logger.With("component", "users")}
}

// Add creates an account. The password is stored as a bcrypt hash; the
// gateway never sees it in plaintext.
func (s *UserService) Add(ctx context.Context, actor models.User, in NewUserInput) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may add users", common.ErrorUnauthorized)
	}

	var errs models.ValidationErrors
	if in.Username == "" {
		errs = append(errs, models.FieldError{Field: "username", Message: "username is required"})
	}
	if in.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "password is required"})
	}
	if in.FullName == "" {
		errs = append(errs, models.FieldError{Field: "full_name", Message: "full name is required"})
	}
	if !in.Role.Valid() {
		errs = append(errs, models.FieldError{Field: "role", Message: "role must be VIEWER, CONTRIBUTOR or ADMIN"})
	}
	if !models.ValidUnit(in.Unit) {
		errs = append(errs, models.FieldError{Field: "unit", Message: "unit must be one of the known units"})
	}
	if len(errs) > 0 {
		return errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.gw.InsertUser(ctx, gateway.UserPayload{
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		Unit:         in.Unit,
	})
	if err != nil {
		if gateway.KindOf(err) == gateway.KindValidation {
			return fmt.Errorf("username %q is already taken: %w", in.Username, err)
		}
		return err
	}

	s.logger.Info(ctx, "user added", "username", in.Username, "role", in.Role, "actor", actor.Username)
	s.sync.Refresh(ctx)
	return nil
}

// Delete removes an account. It is rejected when the target is the acting
// user, or when the target still authors non-deleted records; in that
// case the error reports exactly how many.
func (s *UserService) Delete(ctx context.Context, actor models.User, id string) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may delete users", common.ErrorUnauthorized)
	}
	if id == actor.ID {
		return ErrDeleteSelf
	}

	n, err := s.gw.CountRecordsByAuthor(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: cannot delete, this user is the author of %d records", ErrUserHasRecords, n)
	}

	if err := s.gw.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", id, "actor", actor.Username)
	s.sync.Refresh(ctx)
	return nil
}
