package domain

// Config holds the site-level settings handlers and usecases need at runtime.
type Config struct {
	SiteName       string `yaml:"name"`
	WhatsAppNumber string `yaml:"whatsappNumber"`
	ContactEmail   string `yaml:"contactEmail"`
	StaticDir      string `yaml:"staticDir"`
}
