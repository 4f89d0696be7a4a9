package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Role string

const (
	RoleProvider Role = "provider"
	RolePatient  Role = "patient"
)

// Valid reports whether r is one of the two known roles. The role enum is
// closed; registration must branch exhaustively over it.
func (r Role) Valid() bool {
	return r == RoleProvider || r == RolePatient
}

var (
	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnknownRole          = errors.New("unknown role")
	ErrProviderAtCapacity   = errors.New("provider is at full capacity")
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
}

type Provider struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	FullName        string     `json:"full_name"`
	Specialization  string     `json:"specialization"`
	InstitutionID   *uuid.UUID `json:"institution_id,omitempty"`
	MaxCapacity     *int       `json:"max_capacity,omitempty"`
	CurrentCapacity int        `json:"current_capacity"`
	IsGeneralist    bool       `json:"is_generalist"`
}

type Patient struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	FullName           string     `json:"full_name"`
	SelectedProviderID *uuid.UUID `json:"selected_provider_id,omitempty"`
	InstitutionID      *uuid.UUID `json:"institution_id,omitempty"`
}

type Institution struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
}

// RegisterRequest carries both roles' fields; the optional ones are read
// only for the matching role.
type RegisterRequest struct {
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	FullName           string  `json:"full_name"`
	Role               Role    `json:"role"`
	Specialization     *string `json:"specialization,omitempty"`
	InstitutionID      *string `json:"institution_id,omitempty"`
	MaxCapacity        *int    `json:"max_capacity,omitempty"`
	IsGeneralist       *bool   `json:"is_generalist,omitempty"`
	SelectedProviderID *string `json:"selected_provider_id,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IdentityResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Token  string `json:"token,omitempty"`
}

// EditProviderRequest is keyed by the provider's owning user id, not the
// provider row id. Nil fields are left untouched.
type EditProviderRequest struct {
	UserID        string  `json:"user_id"`
	MaxCapacity   *int    `json:"max_capacity,omitempty"`
	InstitutionID *string `json:"institution_id,omitempty"`
}

// NewUser is the pre-insert shape of a users row.
type NewUser struct {
	Email        string
	PasswordHash string
	Role         Role
}

// NewProvider / NewPatient are the role-dependent rows inserted in the same
// transaction as the users row during registration.
type NewProvider struct {
	FullName       string
	Specialization string
	InstitutionID  *uuid.UUID
	MaxCapacity    *int
	IsGeneralist   bool
}

type NewPatient struct {
	FullName           string
	SelectedProviderID *uuid.UUID
	InstitutionID      *uuid.UUID
}

// EditProvider is the parsed form of EditProviderRequest used below the
// adapter layer.
type EditProvider struct {
	UserID        uuid.UUID
	MaxCapacity   *int
	InstitutionID *uuid.UUID
}

// IdentityStore owns the users table plus the role-dependent rows created
// at registration. Both Create methods span two tables in a single
// transaction: a failed dependent insert must not leave an orphan user.
type IdentityStore interface {
	CreateProviderUser(ctx context.Context, traceID string, user NewUser, provider NewProvider) (uuid.UUID, error)
	CreatePatientUser(ctx context.Context, traceID string, user NewUser, patient NewPatient) (uuid.UUID, error)

	// FindUserByEmail and FindUserByID return (nil, nil) when no row matches.
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// ProviderStore reads and mutates provider rows. List methods return an
// empty slice, and the single-row methods (nil, nil), when nothing matches.
type ProviderStore interface {
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]Provider, error)
	ListGeneralistsByInstitution(ctx context.Context, institutionID uuid.UUID) ([]Provider, error)
	ListBySpecialization(ctx context.Context, specialization string, institutionID uuid.UUID) ([]Provider, error)

	UpdateProfile(ctx context.Context, edit EditProvider) (*Provider, error)
	IncrementCapacity(ctx context.Context, traceID string, providerID uuid.UUID, policy CapacityPolicy) (*Provider, error)
}

type InstitutionStore interface {
	Add(ctx context.Context, traceID string, inst Institution) (*Institution, error)
	ListAll(ctx context.Context) ([]Institution, error)
}
