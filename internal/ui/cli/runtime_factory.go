package cli

import (
	"fmt"

	coreapp "hljsgen/internal/core/app"
	"hljsgen/internal/core/config"
	"hljsgen/internal/core/ports"
)

// generator is the driving surface the runtime needs, including config reload.
type generator interface {
	ports.GenerationService
	UpdateConfig(cfg *config.Config, paths config.ResolvedPaths) error
}

type generatorFactory interface {
	New(cfg *config.Config, paths config.ResolvedPaths) (generator, error)
}

type coreGeneratorFactory struct{}

func (coreGeneratorFactory) New(cfg *config.Config, paths config.ResolvedPaths) (generator, error) {
	app, err := coreapp.New(cfg, paths)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func initializeGenerator(cfg *config.Config, paths config.ResolvedPaths, factory generatorFactory) (generator, error) {
	if factory == nil {
		return nil, fmt.Errorf("generator factory is required")
	}
	return factory.New(cfg, paths)
}
