package gameclient

// CredentialStore holds at most one session token. It is not safe for
// concurrent use; wrap it or use one Client per session.
type CredentialStore struct {
	token string
	set   bool
}

// Set stores token, replacing any previous value.
func (s *CredentialStore) Set(token string) {
	s.token = token
	s.set = true
}

// Get returns the stored token and whether one is present.
func (s *CredentialStore) Get() (string, bool) {
	return s.token, s.set
}

// Clear forgets the stored token.
func (s *CredentialStore) Clear() {
	s.token = ""
	s.set = false
}

// Degraded reports whether the stored token is the NotFound sentinel left behind
// by a login response that had no session_token.
func (s *CredentialStore) Degraded() bool {
	return s.set && s.token == NotFound
}
