package env

type ImporterEnvironment struct {
	FilesDir           string `validate:"required"`
	MaxAttachmentBytes int    `validate:"required,min=1024"`
}
