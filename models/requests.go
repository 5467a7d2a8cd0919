package models

// Request schemas. Each is validated before reaching controller logic.

type RegisterRequest struct {
	FirstName  string `json:"firstName" validate:"omitempty,max=50"`
	LastName   string `json:"lastName" validate:"omitempty,max=50"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=1,max=72"`
	Location   string `json:"location" validate:"omitempty,max=100"`
	Occupation string `json:"occupation" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName  *string `json:"firstName" validate:"omitempty,max=50"`
	LastName   *string `json:"lastName" validate:"omitempty,max=50"`
	Location   *string `json:"location" validate:"omitempty,max=100"`
	Occupation *string `json:"occupation" validate:"omitempty,max=100"`
}

type CreatePostRequest struct {
	Description string `json:"description" validate:"max=2000"`
}

type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
