package logger

import "go.uber.org/zap"

// New builds the application logger. Production config, stdout only.
func New(isProduction bool) (*zap.Logger, error) {
	if !isProduction {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	return config.Build()
}
