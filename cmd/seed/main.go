package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/services"
	"quill/internal/repository/postgres"
	"quill/internal/search"
	serviceArticle "quill/internal/service/article"
	editor "quill/internal/service/blocks"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed articles")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.IsProduction() && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		logger.Warn("dropping all tables", "prefix", cfg.TablePrefix)
		if err := postgres.DropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	logger.Info("schema ready", "environment", cfg.Environment, "prefix", cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	articleRepo := postgres.NewArticleRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	index, err := search.Open(cfg.SearchIndexPath, logger)
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	articles := serviceArticle.NewArticleService(articleRepo, txManager, serviceArticle.NewContentAnalyzer(), index, logger)

	seeded := 0
	for _, s := range seedArticles() {
		if err := seedOne(ctx, articles, s); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				logger.Info("article exists, skipping", "slug", s.request.Slug)
				continue
			}
			logger.Error("failed to seed article", "title", s.request.Title, "error", err)
			continue
		}
		seeded++
	}

	logger.Info("seeding complete", "created", seeded)
}

type seedArticle struct {
	request *services.CreateArticleRequest
	ops     []editor.Operation
	publish bool
}

func seedOne(ctx context.Context, articles services.ArticleService, s seedArticle) error {
	a, err := articles.CreateArticle(ctx, s.request)
	if err != nil {
		return err
	}
	if len(s.ops) > 0 {
		if a, err = articles.ApplyOperations(ctx, a.ID, s.ops); err != nil {
			return err
		}
	}
	if s.publish {
		if a, err = articles.Publish(ctx, a.ID); err != nil {
			return err
		}
	}
	log.Printf("created %s (%s, %d words)", a.Slug, a.Status, a.WordCount)
	return nil
}

func insertSection(layout blocks.LayoutType) editor.Operation {
	return editor.Operation{Op: editor.OpInsertSection, Layout: layout}
}

func add(section, column int, t blocks.BlockType, content string) editor.Operation {
	return editor.Operation{Op: editor.OpInsertBlock, Section: section, Column: column, BlockType: t, Content: content}
}

func seedArticles() []seedArticle {
	return []seedArticle{
		{
			request: &services.CreateArticleRequest{
				Title:   "Designing a Block Editor",
				Slug:    "designing-a-block-editor",
				Summary: "Sections, columns and blocks: how the editor keeps layouts honest.",
				Tags:    []string{"editor", "design"},
			},
			ops: []editor.Operation{
				insertSection(blocks.LayoutFull),
				add(0, 0, blocks.BlockTypeText, "## Why blocks\n\nA document is a list of sections. Each section splits into columns, and each column holds blocks."),
				add(0, 0, blocks.BlockTypeQuote, "Layouts decide column counts.\nBlocks never do."),
				insertSection(blocks.LayoutTwoEqual),
				add(1, 0, blocks.BlockTypeCode, "doc, err := editor.InsertSection(doc, blocks.LayoutTwoEqual, 1)"),
				add(1, 1, blocks.BlockTypeText, "Every edit returns a new document, so undo is just the previous value."),
				add(1, 1, blocks.BlockTypeDivider, ""),
			},
			publish: true,
		},
		{
			request: &services.CreateArticleRequest{
				Title:   "Project Layout Notes",
				Slug:    "project-layout-notes",
				Summary: "A quick tour of the repository.",
				Tags:    []string{"go"},
			},
			ops: []editor.Operation{
				insertSection(blocks.LayoutTwoLeft),
				add(0, 0, blocks.BlockTypeText, "Handlers stay thin; services own the rules."),
				add(0, 1, blocks.BlockTypeFileTree, "cmd/\n  server/\n  seed/\ninternal/\n  handler/\n  service/"),
			},
			publish: true,
		},
		{
			request: &services.CreateArticleRequest{
				Title: "Draft: Search Ranking Ideas",
				Tags:  []string{"search"},
			},
			ops: []editor.Operation{
				insertSection(blocks.LayoutThreeEqual),
				add(0, 1, blocks.BlockTypeText, "Boost titles over body text."),
			},
		},
	}
}
