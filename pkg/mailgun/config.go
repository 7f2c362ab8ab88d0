package mailgun

const (
	baseURLUS = "https://api.mailgun.net/v3"
	baseURLEU = "https://api.eu.mailgun.net/v3"
)

// Config holds Mailgun credentials.
// Embed this in the app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `env:"MAILGUN_API_KEY"`
	Domain string `env:"MAILGUN_DOMAIN"`
	EU     bool   `env:"MAILGUN_EU" envDefault:"false"`
}

// Configured reports whether the API key and sending domain are set.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.Domain != ""
}

// BaseURL returns the regional API base URL.
func (c Config) BaseURL() string {
	if c.EU {
		return baseURLEU
	}
	return baseURLUS
}
