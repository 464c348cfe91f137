package client

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type InviteAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

type ClientResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

type ClientAdminResponse struct {
	ID        string `json:"id"`
	ClientID  int64  `json:"client_id"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

type InviteResponse struct {
	ID        string `json:"id"`
	ClientID  int64  `json:"client_id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}
