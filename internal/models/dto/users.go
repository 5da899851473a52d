package dto

import "github.com/codetrellis/userbase/internal/models"

type SignupRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the success body for both signup and signin.
type TokenResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// UpdateUserRequest carries the sparse update set; nil means "leave as is".
type UpdateUserRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	UpdatedBy *string `json:"updated_by"`
}

// Empty reports whether the request names no fields at all.
func (r UpdateUserRequest) Empty() bool {
	return r.Firstname == nil && r.Lastname == nil && r.Password == nil &&
		r.Role == nil && r.UpdatedBy == nil
}

type ListResponse struct {
	Fetch bool          `json:"fetch"`
	Data  []models.User `json:"data"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// UpdateResult mirrors the row-count object the update endpoint has always
// returned under the "result" key.
type UpdateResult struct {
	AffectedRows int64 `json:"affectedRows"`
}

type UpdateResponse struct {
	Fetch   bool         `json:"fetch"`
	Message string       `json:"message"`
	Result  UpdateResult `json:"result"`
}
