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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/finrag/finrag"
	"github.com/finrag/finrag/ai"
	"github.com/finrag/finrag/ai/langchain"
	"github.com/finrag/finrag/storage"
	"github.com/finrag/finrag/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "finrag",
		Usage: "Hierarchical retrieval-augmented generation over financial reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Chunk, cluster and summarize a set of documents into a tree, then save it",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tree",
						Aliases:  []string{"t"},
						Usage:    "Path to the tree's storage directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "doc",
						Aliases:  []string{"d"},
						Usage:    "Path to a document text file (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config file (defaults are used if absent)",
					},
					&cli.BoolFlag{
						Name:  "badger",
						Usage: "Store the tree in a Badger database instead of plain files",
					},
					embeddingHostFlag, embeddingModelFlag,
					summarizerHostFlag, summarizerModelFlag,
					qaHostFlag, qaModelFlag,
				},
			},
			{
				Name:   "query",
				Usage:  "Load a tree and answer a question against it",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tree",
						Aliases:  []string{"t"},
						Usage:    "Path to the tree's storage directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config file (defaults are used if absent)",
					},
					&cli.BoolFlag{
						Name:  "badger",
						Usage: "The tree was stored in a Badger database instead of plain files",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Include per-node relevance scores in the printed context",
					},
					embeddingHostFlag, embeddingModelFlag,
					summarizerHostFlag, summarizerModelFlag,
					qaHostFlag, qaModelFlag,
				},
				ArgsUsage: "<question>",
			},
			{
				Name:   "stats",
				Usage:  "Print node counts per level of a saved tree",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tree",
						Aliases:  []string{"t"},
						Usage:    "Path to the tree's storage directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "badger",
						Usage: "The tree was stored in a Badger database instead of plain files",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Refresh every node's embedding vector without rebuilding cluster structure",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tree",
						Aliases:  []string{"t"},
						Usage:    "Path to the tree's storage directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config file (defaults are used if absent)",
					},
					&cli.BoolFlag{
						Name:  "badger",
						Usage: "The tree was stored in a Badger database instead of plain files",
					},
					embeddingHostFlag, embeddingModelFlag,
					summarizerHostFlag, summarizerModelFlag,
					qaHostFlag, qaModelFlag,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	embeddingHostFlag   = &cli.StringFlag{Name: "embedding-host", Usage: "Embedding service host URL", Value: "http://localhost:11434/v1"}
	embeddingModelFlag  = &cli.StringFlag{Name: "embedding-model", Usage: "Embedding model name", Value: "embeddinggemma"}
	summarizerHostFlag  = &cli.StringFlag{Name: "summarizer-host", Usage: "Summarizer service host URL", Value: "http://localhost:11434/v1"}
	summarizerModelFlag = &cli.StringFlag{Name: "summarizer-model", Usage: "Summarizer model name", Value: "qwen2.5:3b"}
	qaHostFlag          = &cli.StringFlag{Name: "qa-host", Usage: "QA service host URL", Value: "http://localhost:11434/v1"}
	qaModelFlag         = &cli.StringFlag{Name: "qa-model", Usage: "QA model name", Value: "qwen2.5:3b"}
)

func loadConfig(c *cli.Context) (*finrag.Config, error) {
	var cfg *finrag.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = finrag.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = finrag.DefaultConfig()
	}

	cfg.AI.EmbeddingHost = c.String("embedding-host")
	cfg.AI.EmbeddingModel = c.String("embedding-model")
	cfg.AI.SummarizerHost = c.String("summarizer-host")
	cfg.AI.SummarizerModel = c.String("summarizer-model")
	cfg.AI.QAHost = c.String("qa-host")
	cfg.AI.QAModel = c.String("qa-model")
	return cfg, nil
}

func openStore(c *cli.Context) (storage.TreeStore, error) {
	dir := c.String("tree")
	if c.Bool("badger") {
		backend, err := badger.OpenBackend(dir, false)
		if err != nil {
			return nil, fmt.Errorf("open badger backend: %w", err)
		}
		return badger.NewStore(backend), nil
	}
	return storage.NewFileStore(dir)
}

func newProvider(cfg *finrag.Config) (ai.Provider, error) {
	return langchain.NewProvider(&cfg.AI)
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var documents []string
	for _, path := range c.StringSlice("doc") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read document %s: %w", path, err)
		}
		documents = append(documents, string(data))
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}

	orc := finrag.New(cfg, provider, store)
	defer orc.Close()

	fmt.Fprintf(os.Stderr, "Building tree from %d document(s)...\n", len(documents))
	if err := orc.AddDocuments(ctx, documents, nil); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	if err := orc.Save(ctx); err != nil {
		return fmt.Errorf("save tree: %w", err)
	}

	stats, err := orc.Statistics()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Built tree: %d nodes across %d levels.\n", stats.TotalNodes, stats.Depth+1)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}

	orc := finrag.New(cfg, provider, store)
	defer orc.Close()

	if err := orc.Load(ctx); err != nil {
		return fmt.Errorf("load tree: %w", err)
	}

	result, err := orc.Query(ctx, question)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	fmt.Println(result.Answer)
	if c.Bool("verbose") {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, result.Context)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(c)
	if err != nil {
		return err
	}

	orc := finrag.New(finrag.DefaultConfig(), nil, store)
	defer store.Close()

	if err := orc.Load(ctx); err != nil {
		return fmt.Errorf("load tree: %w", err)
	}

	stats, err := orc.Statistics()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}

	orc := finrag.New(cfg, provider, store)
	defer orc.Close()

	if err := orc.Load(ctx); err != nil {
		return fmt.Errorf("load tree: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Reembedding tree...")
	if err := orc.ReembedAll(ctx); err != nil {
		return fmt.Errorf("reembed: %w", err)
	}
	if err := orc.Save(ctx); err != nil {
		return fmt.Errorf("save tree: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Reembedding complete.")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
