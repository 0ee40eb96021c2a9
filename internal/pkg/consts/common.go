package consts

const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
)

const (
	CtxUserID = "user_id"
	CtxRoles  = "roles"
)

const (
	DefaultPageLimit = 10
	DefaultPage      = 1
)
