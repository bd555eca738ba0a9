package constant

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Redis keys of the cached lookup lists.
const (
	CacheKeyRoles       = "lookup:roles"
	CacheKeyPermissions = "lookup:permissions"
)

const (
	UserDeletedMessage     = "User has been deleted."
	UserNotExistMessage    = "User does not exist."
	UserDeleteErrorMessage = "An error occurred while deleting the user."
	DataTableErrorMessage  = "An error occurred while processing your request."
)
