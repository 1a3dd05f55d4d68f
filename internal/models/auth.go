package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens issued by the
// surrounding identity service.
type JWTClaims struct {
	UserID       int64    `json:"user_id"`
	Role         UserRole `json:"role"`
	DepartmentID *int64   `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

// CanManageDepartment reports whether the holder may edit departmentID's routine.
func (c *JWTClaims) CanManageDepartment(departmentID int64) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case RoleSuperAdmin:
		return true
	case RoleDepartmentAdmin:
		return c.DepartmentID != nil && *c.DepartmentID == departmentID
	default:
		return false
	}
}
