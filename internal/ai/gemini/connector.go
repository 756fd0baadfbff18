package gemini

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-refiner/internal/ai"
	"github.com/spigell/resume-refiner/internal/logger"
	"github.com/spigell/resume-refiner/internal/utils"
)

type generatorFactory func(ctx context.Context, apiKey string) (ai.Generator, error)

// Connector hands out one generator per credential. The credential itself is
// never stored as a key or logged; a fingerprint is used instead.
type Connector struct {
	newGenerator generatorFactory
	logger       *zap.Logger

	mu         sync.Mutex
	generators map[string]ai.Generator
}

// NewConnector returns a Connector creating Gemini generators with opts.
func NewConnector(opts Options, log *zap.Logger) *Connector {
	log = logger.WithFields(log)
	return &Connector{
		newGenerator: func(ctx context.Context, apiKey string) (ai.Generator, error) {
			return NewGenerator(ctx, apiKey, opts, log)
		},
		logger:     log,
		generators: make(map[string]ai.Generator),
	}
}

// Generator returns the generator bound to credential, creating it on first use.
func (c *Connector) Generator(ctx context.Context, credential string) (ai.Generator, error) {
	key := utils.Fingerprint(credential)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generator, ok := c.generators[key]; ok {
		return generator, nil
	}

	generator, err := c.newGenerator(ctx, credential)
	if err != nil {
		return nil, err
	}

	c.generators[key] = generator
	c.logger.Debug("created gemini generator", zap.String(logger.FieldCredential, key))

	return generator, nil
}
