package models

// Role is the closed set of user roles. Authorization decisions go through
// the capability table below, checked once in the authorization gate rather
// than via string comparisons scattered across call sites.
type Role string

const (
	RoleCashier        Role = "CASHIER"
	RoleManager        Role = "MANAGER"
	RoleAdmin          Role = "ADMIN"
	RoleGeneralManager Role = "GENERAL_MANAGER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleCashier, RoleManager, RoleAdmin, RoleGeneralManager:
		return true
	}
	return false
}

// Operation names a sensitive action gated by supervisor authorization.
type Operation string

const (
	OpForceCloseTerminal Operation = "FORCE_CLOSE_TERMINAL"
	OpRecordMovement     Operation = "RECORD_MOVEMENT"
	OpExecuteHandover    Operation = "EXECUTE_HANDOVER"
	OpManageUsers        Operation = "MANAGE_USERS"
)

// supervisorCapabilities maps roles to the sensitive operations they may
// authorize. Cashiers can authorize nothing; staff provisioning is reserved
// for admins.
var supervisorCapabilities = map[Role]map[Operation]bool{
	RoleManager: {
		OpForceCloseTerminal: true,
		OpRecordMovement:     true,
		OpExecuteHandover:    true,
	},
	RoleAdmin: {
		OpForceCloseTerminal: true,
		OpRecordMovement:     true,
		OpExecuteHandover:    true,
		OpManageUsers:        true,
	},
	RoleGeneralManager: {
		OpForceCloseTerminal: true,
		OpRecordMovement:     true,
		OpExecuteHandover:    true,
		OpManageUsers:        true,
	},
}

// CanAuthorize reports whether the role may authorize the given operation.
func (r Role) CanAuthorize(op Operation) bool {
	return supervisorCapabilities[r][op]
}

// IsSupervisor reports whether the role may authorize any sensitive
// operation at all.
func (r Role) IsSupervisor() bool {
	return len(supervisorCapabilities[r]) > 0
}

// User is a store employee with a PIN credential. PINHash is a bcrypt hash
// with configurable cost.
type User struct {
	ID         string
	UserName   string
	PINHash    []byte
	Role       Role
	LocationID string
}
