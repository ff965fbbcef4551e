package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/rakhadavedra/user-management-service/internal/domain"
	pkgdto "github.com/rakhadavedra/user-management-service/pkg/dto"
	"github.com/rakhadavedra/user-management-service/pkg/errs"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id int64) (data domain.UserWithAgency, err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (data []domain.UserWithAgency, err error)
	GetUserRoleNames(ctx context.Context, userID int64) (names []string, err error)
	GetUserPermissionNames(ctx context.Context, userID int64) (names []string, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
	AddUserRoles(ctx context.Context, userID int64, roleIDs []int64) (err error)
	AddUserPermissions(ctx context.Context, userID int64, permissionIDs []int64) (err error)
	UpdateUser(ctx context.Context, data domain.User) (err error)
	DeleteUserRoles(ctx context.Context, userID int64) (err error)
	DeleteUserPermissions(ctx context.Context, userID int64) (err error)
	DeleteUser(ctx context.Context, userID int64) (err error)
	GetRoles(ctx context.Context) (data []domain.Role, err error)
	GetPermissions(ctx context.Context) (data []domain.Permission, err error)
	GetAgencies(ctx context.Context) (data []domain.Agency, err error)
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type UserRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateNewRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// ext returns the transaction when the repository was created by HandleTrx,
// otherwise the pooled connection.
func (r *UserRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	err = sqlx.GetContext(ctx, r.ext(), &res, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (data domain.UserWithAgency, err error) {
	err = sqlx.GetContext(ctx, r.ext(), &data,
		`SELECT u.id, u.username, u.email, u.phone, u.status, u.agency_id, a.name AS agency_name, u.created_at
		 FROM users u
		 LEFT JOIN agencies a ON u.agency_id = a.id
		 WHERE u.id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetUserByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (data []domain.UserWithAgency, err error) {
	query := `SELECT u.id, u.username, u.email, u.phone, u.status, u.agency_id, a.name AS agency_name, u.created_at
		 FROM users u
		 LEFT JOIN agencies a ON u.agency_id = a.id
		 ORDER BY u.id`

	args := make(map[string]interface{})

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	query, queryArgs, err := sqlx.Named(query, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = sqlx.SelectContext(ctx, r.ext(), &data, r.ext().Rebind(query), queryArgs...)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *UserRepositoryImpl) GetUserRoleNames(ctx context.Context, userID int64) (names []string, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &names,
		`SELECT r.name FROM roles r
		 INNER JOIN user_roles ur ON r.id = ur.role_id
		 WHERE ur.user_id = $1`, userID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUserRoleNames").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetUserPermissionNames(ctx context.Context, userID int64) (names []string, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &names,
		`SELECT p.name FROM permissions p
		 INNER JOIN user_permissions up ON p.id = up.permission_id
		 WHERE up.user_id = $1`, userID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUserPermissionNames").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	data.CreatedAt = time.Now().UnixMilli()

	query, args, err := sqlx.Named(
		`INSERT INTO users(username, email, phone, status, agency_id, hashed_password, created_at)
		 VALUES (:username, :email, :phone, :status, :agency_id, :hashed_password, :created_at) RETURNING id`, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = sqlx.GetContext(ctx, r.ext(), &id, r.ext().Rebind(query), args...)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, errs.ErrEmailAlreadyUsed
		}
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUserRoles(ctx context.Context, userID int64, roleIDs []int64) (err error) {
	if len(roleIDs) == 0 {
		return nil
	}

	rows := make([]domain.UserRole, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		rows = append(rows, domain.UserRole{UserID: userID, RoleID: roleID})
	}

	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO user_roles(user_id, role_id) VALUES (:user_id, :role_id)", rows)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUserRoles").Msg("")
		return errs.ErrClient
	}

	return nil
}

func (r *UserRepositoryImpl) AddUserPermissions(ctx context.Context, userID int64, permissionIDs []int64) (err error) {
	if len(permissionIDs) == 0 {
		return nil
	}

	rows := make([]domain.UserPermission, 0, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		rows = append(rows, domain.UserPermission{UserID: userID, PermissionID: permissionID})
	}

	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO user_permissions(user_id, permission_id) VALUES (:user_id, :permission_id)", rows)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUserPermissions").Msg("")
		return errs.ErrClient
	}

	return nil
}

func (r *UserRepositoryImpl) UpdateUser(ctx context.Context, data domain.User) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(),
		"UPDATE users SET username=:username, email=:email, phone=:phone, status=:status, agency_id=:agency_id WHERE id=:id", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUser").Msg("")
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errs.ErrEmailAlreadyUsed
		}
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) DeleteUserRoles(ctx context.Context, userID int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "DELETE FROM user_roles WHERE user_id = $1", userID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteUserRoles").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) DeleteUserPermissions(ctx context.Context, userID int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "DELETE FROM user_permissions WHERE user_id = $1", userID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteUserPermissions").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) DeleteUser(ctx context.Context, userID int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteUser").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) GetRoles(ctx context.Context) (data []domain.Role, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data, "SELECT * FROM roles ORDER BY id")
	if err != nil {
		log.Error().Err(err).Str("component", "GetRoles").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetPermissions(ctx context.Context) (data []domain.Permission, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data, "SELECT * FROM permissions ORDER BY id")
	if err != nil {
		log.Error().Err(err).Str("component", "GetPermissions").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetAgencies(ctx context.Context) (data []domain.Agency, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data, "SELECT * FROM agencies ORDER BY id")
	if err != nil {
		log.Error().Err(err).Str("component", "GetAgencies").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

// HandleTrx runs fn inside a single transaction. The repository handed to fn
// is bound to that transaction; rollback happens on error or panic, commit
// otherwise.
func (r *UserRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Error().Err(err).Str("component", "HandleTrx").Msg("")
		return errs.ErrInternalServer
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	trxRepo := &UserRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, trxRepo)

	return err
}
