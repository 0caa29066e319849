// Package utils exposes reusable helpers consumed by the command-line layer.
//
// It houses ConfigurationLoader, which layers embedded defaults, configuration
// files, and environment variables through Viper, and LoggerFactory, which
// builds zap loggers in structured or console encodings.
package utils
