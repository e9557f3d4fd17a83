// Package constants provides shared constants for the flip-calculator application.
package constants

// Validation messages shown next to a form field.
const (
	// MsgFieldEmpty is shown when a field is blank after trimming whitespace.
	MsgFieldEmpty = "This field cannot be empty."

	// MsgFieldNotNumber is shown when a field does not parse as a number.
	MsgFieldNotNumber = "Must be a valid number."

	// MsgFieldNegative is shown when a field parses to a negative number.
	MsgFieldNegative = "Must be a non-negative number."
)

// Submission messages shown in the error banner.
const (
	// MsgFormInvalid is the banner shown when whole-form validation fails.
	MsgFormInvalid = "Please correct the errors in the form."

	// MsgServerFailure is the banner shown when the calculation server fails
	// without providing its own message.
	MsgServerFailure = "Something went wrong on the server."
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (FLIPCALC_SERVER_ADDRESS, ...)
	EnvPrefix = "FLIPCALC"
)

// Calculator client defaults
const (
	// DefaultCalculatorEndpoint is the base URL of the calculation server.
	DefaultCalculatorEndpoint = "http://localhost:5000"

	// CalculatePath is the path of the calculation endpoint relative to the base URL.
	CalculatePath = "/calculate"

	// RequestIDHeader carries the per-call correlation id.
	RequestIDHeader = "X-Request-ID"

	// MaxResponseBytes bounds how much of a calculation response is read.
	MaxResponseBytes int64 = 1 << 20
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Display constants
const (
	// CurrencySymbol prefixes every amount in the UI.
	CurrencySymbol = "£"

	// DecimalPlaces is the number of decimals shown for amounts and percentages.
	DecimalPlaces = 2
)
