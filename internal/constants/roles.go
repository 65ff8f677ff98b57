package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the membership role column
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"

	// RoleNone is returned for callers without a confirmed, active membership
	RoleNone Role = ""
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// IsValid reports whether r is one of the assignable roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleUser:
		return true
	}
	return false
}

// IsPrivileged is true for roles allowed to manage members, prompts and the codebook
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleStaff
}

/* ---------- DB adapters so gorm/sqlx scan and write the column cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = RoleNone
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// ConsentType is the visibility a participant granted for a session recording
type ConsentType string

const (
	ConsentNone    ConsentType = "none"
	ConsentPrivate ConsentType = "private"
	ConsentPublic  ConsentType = "public"
)

func (c ConsentType) String() string { return string(c) }

// ParseConsentType accepts only the three ledger values
func ParseConsentType(s string) (ConsentType, bool) {
	switch ConsentType(s) {
	case ConsentNone, ConsentPrivate, ConsentPublic:
		return ConsentType(s), true
	}
	return "", false
}

// Rank orders consent levels: none < private < public
func (c ConsentType) Rank() int {
	switch c {
	case ConsentPublic:
		return 2
	case ConsentPrivate:
		return 1
	}
	return 0
}

func (c *ConsentType) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = ConsentNone
	case string:
		*c = ConsentType(v)
	case []byte:
		*c = ConsentType(v)
	default:
		return fmt.Errorf("ConsentType: cannot scan type %T", src)
	}
	return nil
}

func (c ConsentType) Value() (driver.Value, error) { return string(c), nil }
