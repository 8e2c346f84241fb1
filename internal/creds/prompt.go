package creds

// Prompter collects secrets from the user. Implementations block until the
// user answers or cancels; ok=false means cancelled, which callers must
// treat differently from an empty answer.
type Prompter interface {
	// MasterPassword asks for the vault master password. With confirm set,
	// the password is entered twice (vault setup).
	MasterPassword(confirm bool) (password string, ok bool)

	// ServiceCredential asks for a service's username and password when the
	// vault has no entry. save reports whether the user opted to store the
	// credential for next time.
	ServiceCredential(service, usernameHint string) (cred Credential, save bool, ok bool)
}
