package env

// MailEnvironment holds outgoing mail credentials. Nothing sends mail yet; the
// values are validated so a deployment can be checked ahead of time.
type MailEnvironment struct {
	Server   string `validate:"omitempty,hostname|ip"`
	Port     int    `validate:"omitempty,min=1,max=65535"`
	Username string `validate:"required_with=Server"`
	Password string `validate:"required_with=Server"`
	Sender   string `validate:"omitempty,email"`
}

func (e MailEnvironment) IsConfigured() bool {
	return e.Server != ""
}
