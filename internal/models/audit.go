package models

import "time"

// AuditLog records one mutating action for the admin audit screen.
type AuditLog struct {
	ID        int64     `bson:"id_log" json:"id_log"`
	UserID    *int64    `bson:"user_id" json:"user_id"`
	Action    string    `bson:"action" json:"action"`
	Entity    *string   `bson:"entity" json:"entity"`
	EntityID  *int64    `bson:"entity_id" json:"entity_id"`
	IPAddr    *string   `bson:"ip_addr" json:"ip_addr"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	UserName  *string   `bson:"user_name,omitempty" json:"user_name"`
	UserEmail *string   `bson:"user_email,omitempty" json:"user_email"`
	UserRole  *string   `bson:"user_role,omitempty" json:"user_role"`
}

// AuditFilter narrows the audit list query.
type AuditFilter struct {
	Query  string
	UserID *int64
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
