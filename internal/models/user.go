package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role scopes what an account may do. The set is fixed by provisioning.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAdder     Role = "adder"
	RoleScanner   Role = "scanner"
	RoleInventory Role = "inventory"
)

// Roles lists every provisioned role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAdder, RoleScanner, RoleInventory}
}

// IsValid reports whether the role belongs to the fixed set.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAdder, RoleScanner, RoleInventory:
		return true
	default:
		return false
	}
}

// User is an operator account. Password always holds a bcrypt hash, never the
// plaintext credential.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
