package domain

var requestTransitions = map[RequestStatus]map[RequestStatus]struct{}{
	RequestPending:    enumSet(RequestInProgress, RequestResolved),
	RequestInProgress: enumSet(RequestResolved),
	RequestResolved:   {},
}

// CanTransition reports whether a service request may move from one status
// to another. Re-applying the current status is a no-op except on a terminal
// status, which accepts nothing.
func CanTransition(from, to RequestStatus) bool {
	if !from.Valid() || !to.Valid() || from.IsTerminal() {
		return false
	}
	if from == to {
		return true
	}
	return inSet(requestTransitions[from], to)
}

// IsTerminal reports whether no further transitions leave the status.
func (s RequestStatus) IsTerminal() bool {
	next, ok := requestTransitions[s]
	return ok && len(next) == 0
}

// ActiveEngineer reports whether u can be assigned to dispensaries.
func (u User) ActiveEngineer() bool {
	return u.Role == RoleUser && u.Status == UserActive
}
