// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package finrag

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/finrag/finrag/ai"
	"github.com/finrag/finrag/cluster"
	"github.com/finrag/finrag/retrieve"
	"github.com/finrag/finrag/treebuild"
)

// Config is the root configuration recognized by the orchestrator
// (§6's "Configuration options recognised" table), loadable from YAML.
type Config struct {
	ChunkSize           int      `yaml:"chunk_size"`
	ChunkOverlap        int      `yaml:"chunk_overlap"`
	MaxDepth            int      `yaml:"max_depth"`
	MaxClusterSize      int      `yaml:"max_cluster_size"`
	MinClusterSize      int      `yaml:"min_cluster_size"`
	ReductionDimension  int      `yaml:"reduction_dimension"`
	MaxClusters         int      `yaml:"max_clusters"`
	GaussianRandomState int64    `yaml:"gaussian_random_state"`
	SummarizationLength int      `yaml:"summarization_length"`
	TopK                int      `yaml:"top_k"`
	TraversalMethod     string   `yaml:"traversal_method"`
	ProviderParallelism int      `yaml:"provider_parallelism"`
	ProviderTimeoutSecs int      `yaml:"provider_timeout_seconds"`

	// MetadataKeys records which fields define the fixed hierarchy.
	// core.Metadata is a typed (sector, company, year) struct rather
	// than a generic map, so reordering this list does not change
	// which fields cluster/group.go reads; it is recorded for
	// compatibility with the configuration contract and is neither read
	// nor validated by the build.
	MetadataKeys []string `yaml:"metadata_keys"`

	AI ai.Config `yaml:"ai"`
}

// DefaultConfig returns the spec-mandated defaults (§6).
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:           512,
		ChunkOverlap:        50,
		MaxDepth:            4,
		MaxClusterSize:      100,
		MinClusterSize:      5,
		ReductionDimension:  10,
		MaxClusters:         5,
		GaussianRandomState: 42,
		SummarizationLength: 200,
		TopK:                10,
		TraversalMethod:     string(retrieve.Hierarchical),
		ProviderParallelism: 8,
		ProviderTimeoutSecs: 60,
		MetadataKeys:        []string{"sector", "company", "year"},
		AI:                  *ai.DefaultConfig(),
	}
}

// Load reads a Config from path. If the file does not exist, Load
// returns the defaults rather than an error, per the teacher pack's
// config-loading convention (kxddry-rag-text-search's config.Load).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ClusterConfig projects the cluster-relevant fields of Config into a
// cluster.Config.
func (c *Config) ClusterConfig() cluster.Config {
	return cluster.Config{
		MaxClusterSize:      c.MaxClusterSize,
		MinClusterSize:      c.MinClusterSize,
		ReductionDimension:  c.ReductionDimension,
		MaxClusters:         c.MaxClusters,
		GaussianRandomState: c.GaussianRandomState,
	}
}

// TreebuildConfig projects the tree-builder-relevant fields of Config
// into a treebuild.Config.
func (c *Config) TreebuildConfig() treebuild.Config {
	cfg := treebuild.DefaultConfig()
	cfg.MaxDepth = c.MaxDepth
	cfg.SummarizationLength = c.SummarizationLength
	cfg.ProviderParallelism = c.ProviderParallelism
	cfg.ProviderTimeout = time.Duration(c.ProviderTimeoutSecs) * time.Second
	return cfg
}

// RetrieveOptions projects the retrieval-relevant fields of Config into
// a retrieve.Options.
func (c *Config) RetrieveOptions() retrieve.Options {
	opts := retrieve.DefaultOptions()
	opts.K = c.TopK
	return opts
}

// RetrievalMethod parses TraversalMethod into a retrieve.Method,
// returning retrieve.ErrUnknownMethod for anything outside
// {hierarchical, flattened} (§7's configuration-error class).
func (c *Config) RetrievalMethod() (retrieve.Method, error) {
	switch retrieve.Method(c.TraversalMethod) {
	case retrieve.Hierarchical, retrieve.Flattened:
		return retrieve.Method(c.TraversalMethod), nil
	default:
		return "", retrieve.ErrUnknownMethod
	}
}
