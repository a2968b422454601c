package user

// Principal identifies an authenticated manager on a request.
type Principal struct {
	UserID string
	Email  string
}
