package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/services"
	"quill/internal/service/importer/converter"
)

// importService implements the ImportService interface
type importService struct {
	articleService services.ArticleService
	converters     *converter.ConverterRegistry
	logger         *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(
	articleService services.ArticleService,
	converters *converter.ConverterRegistry,
	logger *slog.Logger,
) services.ImportService {
	return &importService{
		articleService: articleService,
		converters:     converters,
		logger:         logger,
	}
}

// Import converts an uploaded file and appends it as one text block
func (s *importService) Import(ctx context.Context, req *services.ImportRequest) (*models.Article, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}

	content, err := io.ReadAll(io.LimitReader(req.Content, config.MaxImportFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(content) > config.MaxImportFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, config.MaxImportFileSize)
	}

	markdown, err := s.converters.Convert(ctx, req.Filename, content)
	if err != nil {
		return nil, err
	}
	if markdown == "" {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrValidation, req.Filename)
	}

	article, block, err := s.articleService.AppendBlock(ctx, req.ArticleID, req.Section, req.Column, blocks.BlockTypeText, markdown)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file imported",
		"article_id", req.ArticleID,
		"filename", req.Filename,
		"bytes", len(content),
		"block_id", block.ID,
	)

	return article, nil
}
