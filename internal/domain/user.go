package domain

type User struct {
	ID             int64  `db:"id"`
	Username       string `db:"username"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	Status         string `db:"status"`
	AgencyID       *int64 `db:"agency_id"`
	HashedPassword string `db:"hashed_password"`
	CreatedAt      int64  `db:"created_at"`
}

// UserWithAgency is the read shape of a user joined to its agency. The
// agency side of the join is optional, hence the pointer.
type UserWithAgency struct {
	ID         int64   `db:"id"`
	Username   string  `db:"username"`
	Email      string  `db:"email"`
	Phone      string  `db:"phone"`
	Status     string  `db:"status"`
	AgencyID   *int64  `db:"agency_id"`
	AgencyName *string `db:"agency_name"`
	CreatedAt  int64   `db:"created_at"`
}

type UserRole struct {
	UserID int64 `db:"user_id"`
	RoleID int64 `db:"role_id"`
}

type UserPermission struct {
	UserID       int64 `db:"user_id"`
	PermissionID int64 `db:"permission_id"`
}

type Role struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Permission struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Agency struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
