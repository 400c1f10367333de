package domain

import (
	"context"
	"time"
)

// Roles known to the club server.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is an account that can hold seats in clubs.
// swagger:model User
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials is a stored user together with its PIN hash. Never serialized.
type Credentials struct {
	User    User
	PinHash string
	Salt    string
}

// LoginResult is the body returned by POST /login.
// swagger:model LoginResult
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PinHasher handles salt generation, hashing, and verification of login PINs.
type PinHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, pin string) (hash string, err error)
	Compare(hash, salt, pin string) error
}

// TokenIssuer issues bearer tokens for an authenticated user.
type TokenIssuer interface {
	Issue(user User, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (*User, error)
}

// UserRepository defines server-side user storage.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetCredentials(ctx context.Context, username string) (*Credentials, error)
}

// AuthService authenticates users by username and PIN.
type AuthService interface {
	Login(ctx context.Context, username, pin string) (*LoginResult, error)
}

// AuthGateway is the client's login boundary.
type AuthGateway interface {
	Login(ctx context.Context, username, pin string) (*LoginResult, error)
}

// UserGateway lists accounts known to the server.
type UserGateway interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Identity supplies the acting user for membership operations. A nil user means nobody is signed in.
type Identity interface {
	User() *User
}

// TokenSource supplies the bearer token attached to outgoing requests. Empty means unauthenticated.
type TokenSource interface {
	Token() string
}

// UserService lists accounts for the users endpoint.
type UserService interface {
	List(ctx context.Context) ([]User, error)
}
