package domain

// Session holds the per-caller authentication state: at most one account
// snapshot at a time. A session is exclusively owned by its caller, lives in
// memory only, and never survives a process restart.
//
// Transitions: Anonymous → Authenticated on successful login; Authenticated →
// Anonymous on logout or confirmed deletion; edits refresh the snapshot and
// keep the session authenticated.
type Session struct {
	account *Account
}

// NewSession returns a session in the anonymous state.
func NewSession() *Session {
	return &Session{}
}

// Authenticated reports whether the session currently holds an account.
func (s *Session) Authenticated() bool {
	return s.account != nil
}

// Account returns the authenticated account snapshot, or nil when anonymous.
func (s *Session) Account() *Account {
	return s.account
}

// Begin moves the session to the authenticated state with the given snapshot.
// Replaces any prior snapshot; also used to refresh the snapshot after edits.
func (s *Session) Begin(a *Account) {
	s.account = a
}

// Clear returns the session to the anonymous state.
func (s *Session) Clear() {
	s.account = nil
}
