package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/teslashibe/reachy-blocks/internal/config"
	"github.com/teslashibe/reachy-blocks/internal/log"
	"github.com/teslashibe/reachy-blocks/pkg/blocks"
	"github.com/teslashibe/reachy-blocks/pkg/daemon"
)

type rootFlags struct {
	config   string
	apiURL   string
	logLevel string
	json     bool
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	clientOnce sync.Once
	client     *daemon.Client
	ext        *blocks.Extension
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the config file, then applies flag overrides on top of
// file and environment values.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if u := strings.TrimSpace(c.flags.apiURL); u != "" {
			cfg.Daemon.APIURL = strings.TrimSuffix(u, "/")
		}
		if lvl := strings.TrimSpace(c.flags.logLevel); lvl != "" {
			cfg.Logging.Level = strings.ToLower(lvl)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("invalid flags: %w", err)
			return
		}
		log.Init(cfg.Logging.Level, cfg.Logging.Format)
		c.config = cfg
	})
	return c.config, c.configErr
}

// daemonClient returns the client shared by every call of one invocation.
func (c *commandContext) daemonClient() (*daemon.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.clientOnce.Do(func() {
		c.client = daemon.NewClient(
			daemon.WithBaseURL(cfg.Daemon.APIURL),
			daemon.WithLogger(log.L()),
		)
		c.ext = blocks.New(c.client, log.L())
	})
	return c.client, nil
}

func (c *commandContext) extension() (*blocks.Extension, error) {
	if _, err := c.daemonClient(); err != nil {
		return nil, err
	}
	return c.ext, nil
}

func (c *commandContext) jsonOutput() bool {
	return c.flags != nil && c.flags.json
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
