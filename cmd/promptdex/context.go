package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"promptdex/internal/config"
	"promptdex/internal/logging"
	"promptdex/internal/query"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the configured logger for long-running commands.
// Read-only query commands stay quiet instead; see loadedEngine.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) loadTimeout() time.Duration {
	cfg, err := c.ensureConfig()
	if err != nil || cfg.Pipeline.LoadTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Pipeline.LoadTimeoutSeconds) * time.Second
}

// loadedEngine opens the published dataset for a one-shot query command.
func (c *commandContext) loadedEngine(ctx context.Context) (*query.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	engine := query.NewEngine(cfg.Paths.DatasetDir, c.loadTimeout(), logging.NewNop())
	if err := engine.Load(ctx); err != nil {
		if errors.Is(err, query.ErrUnavailable) {
			return nil, fmt.Errorf("no published dataset in %s; run `promptdex build` first", cfg.Paths.DatasetDir)
		}
		return nil, err
	}
	return engine, nil
}
