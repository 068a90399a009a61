package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/todolist/internal/model"
)

// IsAdmin reports whether the user holds the admin permission.
func (r *UserRepo) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	n, err := r.db.Count(ctx, builder.Select("COUNT(*)").
		From("users_permissions up").
		Join("permission_types pt ON pt.id = up.permission_id").
		Where(sq.Eq{"up.user_id": userID, "pt.name": model.AdminPermission}))
	if err != nil {
		return false, fmt.Errorf("checking admin status of user %d: %w", userID, err)
	}
	return n > 0, nil
}

// SetAdmin grants or revokes the admin permission. It compares the
// current membership first and does nothing when the user is already in
// the desired state, so repeated calls never add a second row.
func (r *UserRepo) SetAdmin(ctx context.Context, userID int64, wantsAdmin bool) error {
	if userID == 0 {
		return fmt.Errorf("setting admin status: %w", ErrNotPersisted)
	}

	isAdmin, err := r.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if isAdmin == wantsAdmin {
		return nil
	}

	permID, err := r.permissionID(ctx, model.AdminPermission)
	if err != nil {
		return err
	}

	if wantsAdmin {
		_, err = r.db.Insert(ctx, builder.Insert("users_permissions").
			Columns("user_id", "permission_id").
			Values(userID, permID))
		if err != nil {
			return fmt.Errorf("granting admin to user %d: %w", userID, err)
		}
		return nil
	}

	_, err = r.db.Delete(ctx, builder.Delete("users_permissions").
		Where(sq.Eq{"user_id": userID, "permission_id": permID}))
	if err != nil {
		return fmt.Errorf("revoking admin from user %d: %w", userID, err)
	}
	return nil
}

func (r *UserRepo) permissionID(ctx context.Context, name string) (int64, error) {
	var id int64
	ok, err := r.db.Get(ctx, &id, builder.Select("id").
		From("permission_types").
		Where(sq.Eq{"name": name}))
	if err != nil {
		return 0, fmt.Errorf("looking up permission %q: %w", name, err)
	}
	if !ok {
		return 0, fmt.Errorf("permission %q: %w", name, ErrNotFound)
	}
	return id, nil
}
