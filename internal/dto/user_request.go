package dto

type RegisterRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Status      string  `json:"status"`
	Password    string  `json:"password"`
	Roles       []int64 `json:"roles"`
	Permissions []int64 `json:"permissions"`
	AgencyID    *int64  `json:"agencyId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	ID          int64   `json:"-"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Status      string  `json:"status"`
	Roles       []int64 `json:"roles"`
	Permissions []int64 `json:"permissions"`
	AgencyID    *int64  `json:"agencyId"`
}
