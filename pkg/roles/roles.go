package roles

// Role is the permission level carried in the JWT.
type Role string

const (
	// Personnel submit supply requests.
	Personnel Role = "personnel"
	// Warehouse staff (almaceneros) review and attend requests.
	Warehouse Role = "warehouse"
	Admin     Role = "admin"
)

type HierarchyLevel int

const (
	PersonnelLevel HierarchyLevel = 1
	WarehouseLevel HierarchyLevel = 2
	AdminLevel     HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Personnel:
		return PersonnelLevel
	case Warehouse:
		return WarehouseLevel
	case Admin:
		return AdminLevel
	default:
		return PersonnelLevel
	}
}

// HasPermission reports whether the role meets the required level.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Personnel, Warehouse, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
