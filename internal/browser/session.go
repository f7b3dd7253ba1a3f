package browser

// Session is the identity the REPL acts as. The zero value is logged out.
type Session struct {
	Username string
	IsAdmin  bool
}

func (s Session) LoggedIn() bool {
	return s.Username != ""
}

func (s Session) String() string {
	switch {
	case !s.LoggedIn():
		return "guest"
	case s.IsAdmin:
		return s.Username + " [admin]"
	default:
		return s.Username
	}
}
