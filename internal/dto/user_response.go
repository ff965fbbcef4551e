package dto

type LoginResponse struct {
	Token string `json:"token"`
}

type RegisterResponse struct {
	UserID      int64   `json:"userId"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Status      string  `json:"status"`
	Roles       []int64 `json:"roles"`
	Permissions []int64 `json:"permissions"`
	AgencyID    *int64  `json:"agencyId"`
}

type UserResponse struct {
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Status      string   `json:"status"`
	AgencyName  *string  `json:"agencyName"`
	CreatedAt   int64    `json:"createdAt"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type RoleResponse struct {
	RoleID   int64  `json:"roleId"`
	RoleName string `json:"roleName"`
}

type PermissionResponse struct {
	PermissionID   int64  `json:"permissionId"`
	PermissionName string `json:"permissionName"`
}

type AgencyResponse struct {
	AgencyID   int64  `json:"agencyId"`
	AgencyName string `json:"agencyName"`
}
