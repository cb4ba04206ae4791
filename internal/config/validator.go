package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/example/haggle/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "negotiation.max_rounds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidProviders returns the list of valid generation providers
func ValidProviders() []string {
	return []string{ProviderGemini, ProviderOffline}
}

// ValidDrivers returns the list of valid database drivers
func ValidDrivers() []string {
	return []string{"sqlite3", "mysql"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGeneration()...)
	errors = append(errors, c.validateDatabase()...)
	errors = append(errors, c.validateNegotiation()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateGeneration() []ValidationError {
	var errors []ValidationError
	g := c.Generation

	if !slices.Contains(ValidProviders(), g.Provider) {
		errors = append(errors, ValidationError{
			Field:   "generation.provider",
			Value:   g.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
		})
	}

	if g.Provider == ProviderGemini && strings.TrimSpace(g.Model) == "" {
		errors = append(errors, ValidationError{
			Field:   "generation.model",
			Value:   g.Model,
			Message: "must not be empty when provider is gemini",
		})
	}

	if g.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "generation.timeout",
			Value:   g.Timeout,
			Message: "must be positive",
		})
	}

	if g.RatePerMinute < 0 {
		errors = append(errors, ValidationError{
			Field:   "generation.rate_per_minute",
			Value:   g.RatePerMinute,
			Message: "must be non-negative",
		})
	}

	if g.RatePerMinute > 0 && g.Burst < 1 {
		errors = append(errors, ValidationError{
			Field:   "generation.burst",
			Value:   g.Burst,
			Message: "must be at least 1 when rate_per_minute is set",
		})
	}

	return errors
}

func (c *Config) validateDatabase() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidDrivers(), c.Database.Driver) {
		errors = append(errors, ValidationError{
			Field:   "database.driver",
			Value:   c.Database.Driver,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDrivers(), ", ")),
		})
	}

	if c.Database.Driver == "mysql" && c.Database.DSN == "" {
		errors = append(errors, ValidationError{
			Field:   "database.dsn",
			Value:   c.Database.DSN,
			Message: "is required for mysql",
		})
	}

	return errors
}

func (c *Config) validateNegotiation() []ValidationError {
	var errors []ValidationError
	n := c.Negotiation

	if n.MaxRounds < 2 {
		errors = append(errors, ValidationError{
			Field:   "negotiation.max_rounds",
			Value:   n.MaxRounds,
			Message: "must be at least 2",
		})
	}

	if n.MinRounds < 1 || n.MinRounds > n.MaxRounds {
		errors = append(errors, ValidationError{
			Field:   "negotiation.min_rounds",
			Value:   n.MinRounds,
			Message: "must be between 1 and max_rounds",
		})
	}

	if n.ConvergenceThreshold < 0 {
		errors = append(errors, ValidationError{
			Field:   "negotiation.convergence_threshold",
			Value:   n.ConvergenceThreshold,
			Message: "must be non-negative",
		})
	}

	const maxHistory = 100
	if n.HistoryLimit < 1 || n.HistoryLimit > maxHistory {
		errors = append(errors, ValidationError{
			Field:   "negotiation.history_limit",
			Value:   n.HistoryLimit,
			Message: fmt.Sprintf("must be between 1 and %d", maxHistory),
		})
	}

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Server.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !logging.IsValidLevel(c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}

	return errors
}
