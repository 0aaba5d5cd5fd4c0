package imagery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// ImageTable holds pre-generated chapter images for the fixed document,
// keyed by zero based chapter index.
type ImageTable interface {
	GetChapterImage(ctx context.Context, chapter int) (link string, found bool, err error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Resolver struct {
	fixedIdentity string
	table         ImageTable
	generator     ImageGenerator
	logger        *logger_i.Logger
}

func NewResolver(fixedIdentity string, table ImageTable, generator ImageGenerator) *Resolver {
	return &Resolver{
		fixedIdentity: fixedIdentity,
		table:         table,
		generator:     generator,
		logger:        logger_i.NewLogger("Image Resolver"),
	}
}

// ResolveImage returns a stored link for the fixed document and a freshly
// generated one otherwise. A blank prompt on the generative path yields "" and
// no error. The fixed path never falls back to generation.
func (r *Resolver) ResolveImage(ctx context.Context, prompt string, documentIdentity string, chapterIndex int) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("image_resolve", time.Since(start)) }()

	log := r.logger.FromContext(ctx).With("document", documentIdentity, "chapter", chapterIndex)

	if documentIdentity == r.fixedIdentity {
		link, found, err := r.table.GetChapterImage(ctx, chapterIndex)
		if err != nil {
			log.Error("image table lookup failed", "error", err)
			return "", workflowModel.NewImageError("Failed to fetch image data from storage.", err)
		}
		if !found || link == "" {
			log.Warn("no stored image for chapter")
			return "", workflowModel.NewImageError(fmt.Sprintf("Image for chapter %d not found.", chapterIndex+1), nil)
		}
		return link, nil
	}

	if strings.TrimSpace(prompt) == "" {
		return "", nil
	}

	url, err := r.generator.Generate(ctx, prompt+config.ImageStyleSuffix)
	if err != nil {
		log.Error("image generation failed", "error", err)
		return "", err
	}
	return url, nil
}
