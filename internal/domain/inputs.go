package domain

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// CreateUserRecord is what the repository persists; the password is already hashed.
type CreateUserRecord struct {
	Name         string
	Email        string
	PasswordHash string
}
