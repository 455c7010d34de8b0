package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"quill/internal/domain"
	"quill/internal/domain/services"
)

// ConverterRegistry routes uploaded files to a converter by extension.
//
// Thread-safe for concurrent access.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]services.ContentConverter // key: extension with dot, lowercase
}

// NewConverterRegistry creates a registry with the markdown, text and HTML
// converters registered.
func NewConverterRegistry() *ConverterRegistry {
	registry := &ConverterRegistry{
		converters: make(map[string]services.ContentConverter),
	}

	registry.Register(NewMarkdownConverter())
	registry.Register(NewTextConverter())
	registry.Register(NewHTMLConverter())

	return registry
}

// Register associates a converter with its extensions, replacing earlier ones
func (r *ConverterRegistry) Register(converter services.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range converter.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.converters[ext] = converter
	}
}

// GetConverter returns the converter for an extension, or nil
func (r *ConverterRegistry) GetConverter(fileExt string) services.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(fileExt)]
}

// Convert picks a converter by filename and runs it
func (r *ConverterRegistry) Convert(ctx context.Context, filename string, content []byte) (string, error) {
	ext := filepath.Ext(filename)
	converter := r.GetConverter(ext)
	if converter == nil {
		return "", fmt.Errorf("%w: unsupported file type %q (supported: %s)",
			domain.ErrValidation, ext, strings.Join(r.SupportedExtensions(), ", "))
	}

	return converter.Convert(ctx, content)
}

// SupportedExtensions returns the registered extensions, sorted
func (r *ConverterRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.converters))
	for ext := range r.converters {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
