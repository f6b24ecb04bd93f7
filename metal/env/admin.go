package env

type AdminEnvironment struct {
	Login       string `validate:"required,alphanum,min=3"`
	Email       string `validate:"required,email"`
	DisplayName string `validate:"required"`
	Password    string `validate:"required,min=8"`
}
