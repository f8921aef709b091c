package auth

const (
	RoleEmployee    = "Employee"
	RoleManager     = "Manager"
	RoleHR          = "HR"
	RoleSystemAdmin = "SystemAdmin"
)

const (
	PermReviewsAnalyze = "reviews.analyze"
	PermPIPRead        = "pips.read"
	PermPIPWrite       = "pips.write"
	PermPIPManage      = "pips.manage"
	PermPIPAcknowledge = "pips.acknowledge"
	PermPIPLetters     = "pips.letters"
	PermRosterRead     = "roster.read"
	PermAuditRead      = "audit.read"
	PermSystemAdmin    = "admin.system"
)

var DefaultPermissions = []string{
	PermReviewsAnalyze,
	PermPIPRead,
	PermPIPWrite,
	PermPIPManage,
	PermPIPAcknowledge,
	PermPIPLetters,
	PermRosterRead,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermPIPRead,
		PermPIPAcknowledge,
	},
	RoleManager: {
		PermReviewsAnalyze,
		PermPIPRead,
		PermPIPWrite,
	},
	RoleHR: {
		PermReviewsAnalyze,
		PermPIPRead,
		PermPIPWrite,
		PermPIPManage,
		PermPIPLetters,
		PermRosterRead,
		PermAuditRead,
	},
	RoleSystemAdmin: {
		PermAuditRead,
		PermSystemAdmin,
	},
}
