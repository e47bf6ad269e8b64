package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"chatvault/internal/config"
	"chatvault/internal/logging"
)

type commandContext struct {
	rootFlag      *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(rootFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		rootFlag:      rootFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

// appRoot resolves the application root: the --root flag when given,
// otherwise the working directory.
func (c *commandContext) appRoot() (string, error) {
	if c.rootFlag != nil {
		if root := strings.TrimSpace(*c.rootFlag); root != "" {
			return root, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		opts := logging.Options{Output: os.Stderr}
		if c.logLevelFlag != nil {
			opts.Level = *c.logLevelFlag
		}
		if c.logFormatFlag != nil {
			opts.Format = *c.logFormatFlag
		}
		c.logger, c.loggerErr = logging.New(opts)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		logger, err := c.ensureLogger()
		if err != nil {
			c.configErr = err
			return
		}
		root, err := c.appRoot()
		if err != nil {
			c.configErr = err
			return
		}
		c.config, c.configErr = config.Load(root, logger)
	})
	return c.config, c.configErr
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
