package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/beancraft/internal/config"
)

// loadProject resolves the project root (the working directory) and loads its
// configuration, honouring --config.
func loadProject() (string, *config.Config, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	var loader config.Loader
	if cfgFile != "" {
		loader = config.NewFileLoader(rootDir, cfgFile)
	} else {
		loader = config.NewLoader(rootDir)
	}

	cfg, err := loader.Load()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return rootDir, cfg, nil
}
