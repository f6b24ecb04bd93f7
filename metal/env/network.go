package env

type NetEnvironment struct {
	HttpHost string `validate:"required,lowercase,min=7"`
	HttpPort string `validate:"required,numeric"`
}

func (e NetEnvironment) GetHostURL() string {
	return e.HttpHost + ":" + e.HttpPort
}
