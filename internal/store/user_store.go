package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/todolist/internal/credential"
	"github.com/nhle/todolist/internal/model"
)

var userColumns = []string{"id", "name", "password", "email", "registration_date"}

// UserRepo persists accounts, their admin membership, and computes the
// per-user todo counts.
type UserRepo struct {
	db     Access
	todos  *TodoRepo
	scheme credential.Scheme
	now    func() time.Time
}

// NewUserRepo returns a repository running statements through db.
// todos receives the cascade when a user is deleted.
func NewUserRepo(db Access, todos *TodoRepo, scheme credential.Scheme) *UserRepo {
	if scheme == nil {
		scheme = credential.Plain{}
	}
	return &UserRepo{
		db:     db,
		todos:  todos,
		scheme: scheme,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save inserts the user when it has no ID and otherwise updates name,
// password, email and registration date. On insert Password is the new
// account's plaintext and is passed through the configured scheme. On
// update Password is the stored credential as loaded and is written
// back unchanged; use SetPassword to change it. Uniqueness is not
// pre-checked; a duplicate name or email fails with ErrConflict.
func (r *UserRepo) Save(ctx context.Context, user model.User) (int64, error) {
	if strings.TrimSpace(user.Name) == "" {
		return 0, fmt.Errorf("user name must not be empty: %w", ErrInvalid)
	}
	if strings.TrimSpace(user.Email) == "" {
		return 0, fmt.Errorf("user email must not be empty: %w", ErrInvalid)
	}

	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = r.now()
	}

	if user.IsPersisted() {
		n, err := r.db.Update(ctx, builder.Update("users").
			Set("name", user.Name).
			Set("password", user.Password).
			Set("email", user.Email).
			Set("registration_date", user.RegistrationDate.UTC()).
			Where(sq.Eq{"id": user.ID}))
		if err != nil {
			return 0, wrapUserWrite(fmt.Sprintf("updating user %d", user.ID), err)
		}
		if n == 0 {
			return 0, fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
		}
		return user.ID, nil
	}

	password, err := r.scheme.Hash(user.Password)
	if err != nil {
		return 0, err
	}

	id, err := r.db.Insert(ctx, builder.Insert("users").
		Columns("name", "password", "email", "registration_date").
		Values(user.Name, password, user.Email, user.RegistrationDate.UTC()))
	if err != nil {
		return 0, wrapUserWrite("creating user", err)
	}
	return id, nil
}

// SetPassword stores a new plaintext password for the user, passed
// through the configured scheme.
func (r *UserRepo) SetPassword(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return fmt.Errorf("password must not be empty: %w", ErrInvalid)
	}

	hashed, err := r.scheme.Hash(password)
	if err != nil {
		return err
	}
	n, err := r.db.Update(ctx, builder.Update("users").
		Set("password", hashed).
		Where(sq.Eq{"id": userID}))
	if err != nil {
		return fmt.Errorf("updating password of user %d: %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

func wrapUserWrite(action string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", action, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// Delete removes the user, its permission rows, and every todo it owns.
// The three deletes are separate statements and are not atomic.
func (r *UserRepo) Delete(ctx context.Context, user model.User) error {
	if !user.IsPersisted() {
		return fmt.Errorf("deleting user: %w", ErrNotPersisted)
	}

	n, err := r.db.Delete(ctx, builder.Delete("users").Where(sq.Eq{"id": user.ID}))
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", user.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}

	_, err = r.db.Delete(ctx, builder.Delete("users_permissions").Where(sq.Eq{"user_id": user.ID}))
	if err != nil {
		return fmt.Errorf("deleting permissions of user %d: %w", user.ID, err)
	}

	if _, err := r.todos.DeleteByOwner(ctx, user.ID); err != nil {
		return fmt.Errorf("deleting todos of user %d: %w", user.ID, err)
	}
	return nil
}

// GetByID returns the user with the given ID; ok is false if absent.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, bool, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName returns the user with the given name; ok is false if absent.
func (r *UserRepo) GetByName(ctx context.Context, name string) (model.User, bool, error) {
	return r.getBy(ctx, "name", name)
}

// GetByEmail returns the user with the given email; ok is false if absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, bool, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) getBy(ctx context.Context, column string, value any) (model.User, bool, error) {
	var user model.User
	ok, err := r.db.Get(ctx, &user, builder.Select(userColumns...).
		From("users").
		Where(sq.Eq{column: value}))
	if err != nil {
		return model.User{}, false, fmt.Errorf("getting user by %s: %w", column, err)
	}
	return user, ok, nil
}

// List returns every user ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.Select(ctx, &users, builder.Select(userColumns...).From("users").OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	return users, nil
}

// HasUserWithName reports whether name is already taken.
func (r *UserRepo) HasUserWithName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, sq.Eq{"name": name})
}

// HasUserWithEmail reports whether email is already taken.
func (r *UserRepo) HasUserWithEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, sq.Eq{"email": email})
}

func (r *UserRepo) exists(ctx context.Context, where sq.Eq) (bool, error) {
	n, err := r.db.Count(ctx, builder.Select("COUNT(*)").From("users").Where(where))
	if err != nil {
		return false, fmt.Errorf("checking users: %w", err)
	}
	return n > 0, nil
}

// Authenticate looks the user up by name, then by email, and checks the
// password. It returns ErrNotFound when neither matches and
// ErrBadPassword when the password is wrong.
func (r *UserRepo) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	user, ok, err := r.GetByName(ctx, login)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		user, ok, err = r.GetByEmail(ctx, login)
		if err != nil {
			return model.User{}, err
		}
	}
	if !ok {
		return model.User{}, fmt.Errorf("user %q: %w", login, ErrNotFound)
	}
	if !r.scheme.Verify(user.Password, password) {
		return model.User{}, fmt.Errorf("user %q: %w", login, ErrBadPassword)
	}
	return user, nil
}
