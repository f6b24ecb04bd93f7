package env

// TracingEnvironment holds configuration for OpenTelemetry tracing
type TracingEnvironment struct {
	Enabled     bool
	Endpoint    string `validate:"omitempty,required_if=Enabled true,url"`
	ServiceName string `validate:"required_if=Enabled true"`
}
