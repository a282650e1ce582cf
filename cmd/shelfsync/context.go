package main

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"shelfsync/internal/config"
	"shelfsync/internal/logging"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		explicit := path != ""
		if path == "" {
			path = config.DefaultPath
		}
		c.config, c.configErr = config.Load(path, explicit)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *log.Logger {
	return logging.New(*c.verboseFlag)
}
