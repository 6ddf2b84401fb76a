package auth

// SignInRequest carries e-mail/password credentials.
type SignInRequest struct {
	Email    string
	Password string
}

// SignUpRequest registers a new account. FullName is stored as provider
// user metadata.
type SignUpRequest struct {
	Email    string
	Password string
	FullName string
}

// SignUpResult reports the outcome of a registration. Session is nil when
// the provider requires e-mail confirmation first.
type SignUpResult struct {
	User    User
	Session *Session
}
