package domain

type Role string

const (
	RoleSuperAdmin Role = "superAdmin"
	RoleOrgAdmin   Role = "orgAdmin"
	RoleDeptAdmin  Role = "deptAdmin"
	RoleUser       Role = "user"
)

// roleRank orders roles by capability. Higher outranks lower.
var roleRank = map[Role]int{
	RoleUser:       0,
	RoleDeptAdmin:  1,
	RoleOrgAdmin:   2,
	RoleSuperAdmin: 3,
}

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r Role) bool {
	_, ok := roleRank[r]
	return ok
}

// IsAdmin reports whether the role carries any admin capability.
func (r Role) IsAdmin() bool {
	return roleRank[r] >= roleRank[RoleDeptAdmin]
}

// Outranks reports whether r sits strictly above other in the capability order.
func (r Role) Outranks(other Role) bool {
	return roleRank[r] > roleRank[other]
}

// User is an account holder. Role and OrgID are jointly meaningful: a
// deptAdmin's OrgID denotes the department they administer, an orgAdmin's the
// org they administer, and a superAdmin's OrgID may be nil. Both fields are
// mutated only through approved requests.
type User struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	OrgID        *int32 `json:"org_id"`
	CreatedOn    string `json:"created_on"`
	UpdatedOn    string `json:"updated_on"`
}
