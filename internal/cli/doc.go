// Package cli implements the pga-stats command line.
//
// The root command loads configuration (YAML file plus PGA_* environment
// variables) and installs the default logger before any subcommand runs.
// pull scrapes new tournaments for every player in the players file; stats,
// export and sync read stored records back through a shared set of filter
// and sort flags.
package cli
