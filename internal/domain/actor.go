package domain

// Actor is the authenticated caller of a workflow. It is passed explicitly so that
// services never reach for request-global session state.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleSuperAdmin }

// UserRef returns the actor id as a nullable column value.
func (a Actor) UserRef() *int64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
