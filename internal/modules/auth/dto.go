package auth

type RegistrationRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=15"`
	Surname   string `json:"surname" validate:"required,min=2,max=15"`
	Username  string `json:"username" validate:"required,min=4,max=15"`
	Password  string `json:"password" validate:"required,min=6,max=15"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=4,max=15"`
	Password string `json:"password" validate:"required,min=6,max=15"`
}

type RegistrationResponse struct {
	UserID      string `json:"userId"`
	FirstName   string `json:"firstName"`
	Surname     string `json:"surname"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

type LoginResponse struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Username  string `json:"username"`
}
