package models

import (
	"fmt"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleDosen     = "dosen"
	RoleMahasiswa = "mahasiswa"
)

// User represents an account row. The integer id and 0/1 activity flag follow
// the legacy wire format the dashboard consumes.
type User struct {
	ID           int64     `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	IsActive     int       `bson:"is_active" json:"is_active"`
	NIM          *string   `bson:"nim,omitempty" json:"nim"`
	NIDN         *string   `bson:"nidn,omitempty" json:"nidn"`
	Prodi        *string   `bson:"prodi,omitempty" json:"prodi"`
	Angkatan     *int      `bson:"angkatan,omitempty" json:"angkatan"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token and the authenticated profile.
type LoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateUserRequest is the POST /api/admin/users body.
type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	NIM      *string `json:"nim"`
	NIDN     *string `json:"nidn"`
	Prodi    *string `json:"prodi"`
	Angkatan *int    `json:"angkatan"`
}

// Validate checks the fields gin's binding tags cannot express.
func (r *CreateUserRequest) Validate() error {
	switch r.Role {
	case RoleAdmin, RoleDosen, RoleMahasiswa:
	default:
		return fmt.Errorf("unknown role: %s", r.Role)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// UserPatch is the PATCH /api/admin/users/:id body.
type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *int    `json:"is_active"`
}
