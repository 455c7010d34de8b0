package article

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/services"
	editor "quill/internal/service/blocks"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	urlPattern  = regexp.MustCompile(`^(https?://|/)\S+$`)
)

func slugRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(1, config.MaxSlugLength),
		validation.Match(slugPattern).Error("must be lowercase letters, digits and single hyphens"),
	}
}

func validateCreateRequest(req *services.CreateArticleRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AuthorID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Slug, slugRules()...),
		validation.Field(&req.Summary, validation.Length(0, config.MaxSummaryLength)),
		validation.Field(&req.Tags,
			validation.Length(0, config.MaxTags),
			validation.Each(validation.Length(1, config.MaxTagLength)),
		),
		validation.Field(&req.CoverImageURL, validation.Match(urlPattern).Error("must be an http(s) URL or absolute path")),
	)
}

func validateUpdateRequest(req *services.UpdateArticleRequest) error {
	rules := []*validation.FieldRules{}

	if req.Title != nil {
		rules = append(rules, validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		))
	}
	if req.Slug != nil {
		rules = append(rules, validation.Field(&req.Slug, append([]validation.Rule{validation.Required}, slugRules()...)...))
	}

	if err := validation.ValidateStruct(req, rules...); err != nil {
		return err
	}

	if req.Tags != nil {
		err := validation.Validate(*req.Tags,
			validation.Length(0, config.MaxTags),
			validation.Each(validation.Length(1, config.MaxTagLength)),
		)
		if err != nil {
			return fmt.Errorf("tags: %w", err)
		}
	}

	if v := req.Summary.Resolve(""); len(v) > config.MaxSummaryLength {
		return fmt.Errorf("summary: the length must be no more than %d", config.MaxSummaryLength)
	}
	if v := req.CoverImageURL.Resolve(""); v != "" && !urlPattern.MatchString(v) {
		return fmt.Errorf("cover_image_url: must be an http(s) URL or absolute path")
	}
	return nil
}

// checkDocument rejects documents that could not have come from the editor
// or are too large to store.
func checkDocument(doc blocks.Document) error {
	if issues := editor.Validate(doc); len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.String()
		}
		return &domain.InvalidDocumentError{Issues: msgs}
	}
	return checkDocumentSize(doc)
}

func checkDocumentSize(doc blocks.Document) error {
	if len(doc.Sections) > config.MaxSectionsPerDocument {
		return fmt.Errorf("%w: document has %d sections, max %d",
			domain.ErrValidation, len(doc.Sections), config.MaxSectionsPerDocument)
	}
	for si, s := range doc.Sections {
		for ci, c := range s.Columns {
			if len(c.Blocks) > config.MaxBlocksPerColumn {
				return fmt.Errorf("%w: sections[%d].columns[%d] has %d blocks, max %d",
					domain.ErrValidation, si, ci, len(c.Blocks), config.MaxBlocksPerColumn)
			}
		}
	}
	return nil
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
