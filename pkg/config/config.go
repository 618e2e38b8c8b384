/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads hostmeta configuration from a JSON file or the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
)

const (
	configSourceFile = "file"
	configSourceEnv  = "env"
	envPrefix        = "HOSTMETA_"
)

var errInvalidConfigSource = errors.New("invalid CONFIG_SOURCE value")

// ConfigLoader fills dst from a source addressed by path.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by configs that can check themselves.
type Validator interface {
	Validate() error
}

type Config struct {
	defaultLoader ConfigLoader
	logger        logger.Logger
}

func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Config{
		defaultLoader: &FileConfigLoader{},
		logger:        log,
	}
}

func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// LoadAndValidate loads cfg using CONFIG_SOURCE (file by default) and validates it.
func (c *Config) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	source := strings.ToLower(os.Getenv("CONFIG_SOURCE"))

	var loader ConfigLoader

	switch source {
	case configSourceEnv:
		loader = NewEnvConfigLoader(c.logger, envPrefix)
	case configSourceFile, "":
		loader = c.defaultLoader
	default:
		return fmt.Errorf("%w: %s (expected '%s' or '%s')",
			errInvalidConfigSource, source, configSourceFile, configSourceEnv)
	}

	if err := loader.Load(ctx, path, cfg); err != nil {
		return err
	}

	return ValidateConfig(cfg)
}

// LoadHostMetaConfig reads the service config, layers HOSTMETA_* env overrides,
// fills defaults and validates the result.
func LoadHostMetaConfig(ctx context.Context, path string, log logger.Logger) (*models.HostMetaConfig, error) {
	cfg := &models.HostMetaConfig{}
	c := NewConfig(log)

	source := strings.ToLower(os.Getenv("CONFIG_SOURCE"))
	if source != configSourceEnv {
		if err := c.defaultLoader.Load(ctx, path, cfg); err != nil {
			return nil, err
		}
	} else if err := NewEnvConfigLoader(c.logger, envPrefix).Load(ctx, path, cfg); err != nil {
		return nil, err
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if cfg.CNPG != nil {
		NormalizeTLSPaths(cfg.CNPG.TLS, cfg.CNPG.CertDir)
	}

	if cfg.NATS != nil {
		NormalizeTLSPaths(cfg.NATS.TLS, "")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NormalizeTLSPaths resolves relative certificate paths against certDir.
func NormalizeTLSPaths(tls *models.TLSConfig, certDir string) {
	if tls == nil || certDir == "" {
		return
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}

		return filepath.Join(certDir, p)
	}

	tls.CertFile = resolve(tls.CertFile)
	tls.KeyFile = resolve(tls.KeyFile)
	tls.CAFile = resolve(tls.CAFile)
}
