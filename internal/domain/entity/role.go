package entity

// Role ID constants, as carried in access token claims
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)
