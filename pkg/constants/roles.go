package constants

// Role определяет закрытый набор ролей пользователей.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician:
		return true
	}
	return false
}

// IsManagement: ADMIN и MANAGER могут создавать и назначать заявки.
func (r Role) IsManagement() bool {
	return r == RoleAdmin || r == RoleManager
}
