// Package constants provides shared constants used throughout the haccp codebase.
// This includes file permissions, provenance labels, default locations and
// the naming rules for the survey-evaluation input files.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// Provenance tag values stamped on every record.
const (
	// AuthorityCentral is the central certification body
	AuthorityCentral = "인증원"

	// AuthorityRegional is a regional food and drug office
	AuthorityRegional = "지방청"

	// CategoryLivestock is the livestock product category
	CategoryLivestock = "축산물"

	// CategoryFood is the processed food category
	CategoryFood = "식품"
)

// Authorities lists the valid authority tags.
var Authorities = []string{AuthorityCentral, AuthorityRegional}

// Categories lists the valid category tags.
var Categories = []string{CategoryLivestock, CategoryFood}

// Input naming
const (
	// SurveyYear is the survey year encoded in the input file names
	SurveyYear = 2024

	// FilePrefix is the common prefix of every input file name
	FilePrefix = "HACCP_조사평가"

	// RegistrationSuffix names the registration (entity information) file of a group
	RegistrationSuffix = "업체정보"

	// RoundFormat renders a 1-based evaluation round label
	RoundFormat = "%d차"

	// EvaluationSuffixFormat names the evaluation file for one round
	EvaluationSuffixFormat = RoundFormat + "평가"
)

// Default values
const (
	// DefaultDataDir is the directory the input files are read from
	DefaultDataDir = "./data"

	// DefaultEncoding selects automatic UTF-8 / CP949 detection
	DefaultEncoding = "auto"

	// DefaultConfigName is the config file name (without extension) looked up in $HOME and "."
	DefaultConfigName = ".haccp"

	// EnvPrefix prefixes environment variable overrides
	EnvPrefix = "HACCP"

	// DefaultLimit is the default number of joined rows printed by the load command
	DefaultLimit = 20
)

// Chart defaults
const (
	// DefaultChartWidth is the default figure width in inches
	DefaultChartWidth = 10.0

	// DefaultChartHeight is the default figure height in inches
	DefaultChartHeight = 6.0

	// DefaultBins is the default histogram bin count
	DefaultBins = 20

	// MaxLegendEntries is the largest category count that still shows a legend
	MaxLegendEntries = 10

	// RotateLabelRunes is the label length at which category tick labels are rotated
	RotateLabelRunes = 6

	// DefaultBackground is the default figure background colour
	DefaultBackground = "#F0F0F0"
)
