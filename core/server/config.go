package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Language is the name language used when a request does not ask for one.
	Language string `mapstructure:"language" default:"en"`
}

const (
	LanguageEnglish  = "en"
	LanguageFrench   = "fr"
	LanguageJapanese = "ja"
)

// IsValidLanguage checks if the configured language has a name feed.
func (c Config) IsValidLanguage() bool {
	switch c.Language {
	case LanguageEnglish, LanguageFrench, LanguageJapanese:
		return true
	default:
		return false
	}
}
