package dto

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100" example:"Ahmed Samir"`
	Phone       string `json:"phone" validate:"required,phone" example:"01012345678"`
	ParentPhone string `json:"parentPhone" validate:"required,phone" example:"01098765432"`
	Password    string `json:"password" validate:"required,min=6" example:"secret123"`
	Grade       string `json:"grade" validate:"required,grade" example:"1-sec"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=student admin"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required" example:"01012345678"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type RegisterResponse struct {
	Token       string `json:"token"`
	Role        string `json:"role" example:"student"`
	UserName    string `json:"userName"`
	UserID      string `json:"userId"`
	IsSuspended bool   `json:"isSuspended"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role" example:"student"`
	UserName string `json:"userName"`
	UserID   string `json:"userId"`
	Grade    string `json:"grade" example:"1-sec"`

	// CurrentSessionID is the freshly issued session token. The client
	// stores it and presents it on every student-scoped request.
	CurrentSessionID string `json:"currentSessionId"`
	IsSuspended      bool   `json:"isSuspended"`
}

type VerifySessionResponse struct {
	IsSuspended bool `json:"isSuspended"`
}
