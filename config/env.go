package config

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// IsProduction returns true for the production environment
func (c *Config) IsProduction() bool {
	return c.Env == Production
}

