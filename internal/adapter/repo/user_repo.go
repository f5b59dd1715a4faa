package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/infra"
	"garmentgrid/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// Create inserts a user. A duplicate email yields domain.ErrConflict.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, sqlinline.QInsertUser,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		string(user.Role),
		string(user.Status),
		user.PasswordHash,
		user.GoogleSub,
	)
	u, err := scanUser(row)
	if infra.IsUniqueViolation(err) {
		return nil, domain.ErrConflict
	}
	return u, err
}

// UpdateProfile sets display name, photo and role.
func (r *UserRepositoryPG) UpdateProfile(ctx context.Context, id, displayName, photoURL string, role domain.UserRole) (*domain.User, error) {
	row := r.db.QueryRow(ctx, sqlinline.QUpdateUserProfile, id, displayName, photoURL, string(role))
	return scanUser(row)
}

// UpsertByGoogleSub inserts a federated user or links the Google subject to
// the existing account with the same email.
func (r *UserRepositoryPG) UpsertByGoogleSub(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, sqlinline.QUpsertGoogleUser,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		string(user.Role),
		string(user.Status),
		user.GoogleSub,
	)
	return scanUser(row)
}

// SetRoleStatus changes a user's role and status. It is used by operators;
// the registration flow never assigns admin.
func (r *UserRepositoryPG) SetRoleStatus(ctx context.Context, id string, role domain.UserRole, status domain.UserStatus) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QUpdateUserRoleStatus, id, string(role), string(status)))
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u      domain.User
		role   string
		status string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PhotoURL, &role, &status, &u.PasswordHash, &u.GoogleSub, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role = domain.ParseUserRole(role)
	u.Status = domain.ParseUserStatus(status)
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
