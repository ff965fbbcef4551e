package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakhadavedra/user-management-service/config"
	"github.com/rakhadavedra/user-management-service/internal/dto"
	"github.com/rakhadavedra/user-management-service/internal/repository"
	"github.com/rakhadavedra/user-management-service/pkg/errs"
	"github.com/rakhadavedra/user-management-service/pkg/utils"
)

const testJWTSecret = "test-secret"

var userColumns = []string{"id", "username", "email", "phone", "status", "agency_id", "hashed_password", "created_at"}

func newMockService(t *testing.T) (UserService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.CreateNewRepository(sqlx.NewDb(db, "postgres"))
	svc := CreateNewService(repo, config.Config{JWTSecret: testJWTSecret}, nil)

	return svc, mock
}

func TestRegisterCreatesUserAndAssociations(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "123", "active", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(7), int64(1), int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Phone:    "123",
		Status:   "active",
		Password: "pw",
		Roles:    []int64{1, 2},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.UserID)
	require.Equal(t, []int64{1, 2}, resp.Roles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRollsBackOnInvalidRole(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO user_roles").
		WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw",
		Roles:    []int64{999},
	})
	require.ErrorIs(t, err, errs.ErrClient)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(7), "alice", "alice@example.com", "", "active", nil, "hashed", int64(1700000000000)))

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, errs.ErrEmailAlreadyUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterMissingRequiredFields(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "alice@example.com"})
	require.ErrorIs(t, err, errs.ErrClient)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, mock := newMockService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcryptCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(7), "alice", "alice@example.com", "", "active", nil, string(hash), int64(1700000000000)))

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, email, err := utils.VerifyJWTToken(resp.Token, testJWTSecret)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
	require.Equal(t, "alice@example.com", email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newMockService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcryptCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(7), "alice", "alice@example.com", "", "active", nil, string(hash), int64(1700000000000)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "pw"})
	require.ErrorIs(t, err, errs.ErrAccountNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserResolvesRolesAndPermissions(t *testing.T) {
	svc, mock := newMockService(t)

	agencyName := "Head Office"
	mock.ExpectQuery("SELECT u.id, .+ FROM users u LEFT JOIN agencies a ON u.agency_id = a.id WHERE u.id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "phone", "status", "agency_id", "agency_name", "created_at"}).
			AddRow(int64(7), "alice", "alice@example.com", "", "active", int64(1), agencyName, int64(1700000000000)))
	mock.ExpectQuery("SELECT r.name FROM roles r INNER JOIN user_roles ur").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Admin").AddRow("Editor"))
	mock.ExpectQuery("SELECT p.name FROM permissions p INNER JOIN user_permissions up").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	resp, err := svc.GetUser(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, []string{"Admin", "Editor"}, resp.Roles)
	require.Empty(t, resp.Permissions)
	require.NotNil(t, resp.AgencyName)
	require.Equal(t, agencyName, *resp.AgencyName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT u.id, .+ FROM users u LEFT JOIN agencies a ON u.agency_id = a.id WHERE u.id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetUser(context.Background(), 42)
	require.ErrorIs(t, err, errs.ErrAccountNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserReplacesAssociations(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET").
		WithArgs("alice", "alice@example.com", "123", "active", nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_roles WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_permissions WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_permissions").
		WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.UpdateUser(context.Background(), dto.UpdateUserRequest{
		ID:          7,
		Username:    "alice",
		Email:       "alice@example.com",
		Phone:       "123",
		Status:      "active",
		Roles:       []int64{3},
		Permissions: []int64{5},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserRollsBackOnFailure(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_roles WHERE user_id").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := svc.UpdateUser(context.Background(), dto.UpdateUserRequest{
		ID:       7,
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    []int64{3},
	})
	require.ErrorIs(t, err, errs.ErrInternalServer)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserRemovesAssociations(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM user_roles WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM user_permissions WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.DeleteUser(context.Background(), 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAgencies(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM agencies ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Head Office"))

	resp, err := svc.GetAgencies(context.Background())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	require.Equal(t, "Head Office", resp[0].AgencyName)
	require.NoError(t, mock.ExpectationsWereMet())
}
