package domain

type OrgType string

const (
	OrgTypeUniversity OrgType = "university"
	OrgTypeHospital   OrgType = "hospital"
	OrgTypeBusiness   OrgType = "business"
	OrgTypeDepartment OrgType = "department"
)

// ValidOrgType reports whether t is one of the closed set of organization types.
func ValidOrgType(t OrgType) bool {
	switch t {
	case OrgTypeUniversity, OrgTypeHospital, OrgTypeBusiness, OrgTypeDepartment:
		return true
	}
	return false
}

// Organization is a node in the org tree. Top-level orgs (university, hospital,
// business) have a nil ParentID; a department's ParentID is the owning org.
// The parent graph is acyclic: no org is ever its own ancestor.
type Organization struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Type      OrgType `json:"type"`
	ParentID  *int32  `json:"parent_id"`
	JoinCode  string  `json:"join_code,omitempty"`
	AdminIDs  []int32 `json:"admin_ids,omitempty"`
	CreatedOn string  `json:"created_on"`
}

// OrgEdge is a (node, parent) pair used to build the parent→children
// adjacency for descendant resolution.
type OrgEdge struct {
	ID       int32
	ParentID *int32
}
