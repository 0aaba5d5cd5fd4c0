package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// Renderer opens document bytes for page rasterisation.
type Renderer interface {
	Open(content []byte) (RenderedDocument, error)
}

type RenderedDocument interface {
	NumPage() int
	// RenderPage returns PNG bytes for a 1-based page at the given scale.
	RenderPage(page int, scale float64) ([]byte, error)
	Close() error
}

// Recognizer runs OCR over one page image. progress receives 0..1.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, language string, progress func(fraction float64)) (string, error)
}

// TextReader handles documents that carry their own text (docx, odt, rtf, txt).
type TextReader func(content []byte) (string, error)

type Extractor struct {
	renderer   Renderer
	recognizer Recognizer
	readText   TextReader
	logger     *logger_i.Logger
}

func NewExtractor(renderer Renderer, recognizer Recognizer) *Extractor {
	return &Extractor{
		renderer:   renderer,
		recognizer: recognizer,
		readText:   ReadDocumentText,
		logger:     logger_i.NewLogger("Extractor"),
	}
}

const emptyTextMessage = "OCR failed to extract any text from the PDF."

// ExtractText renders every page in order, OCRs it, and joins the results with
// a newline per page. Any page failure aborts the run; an all-blank result is
// an error rather than an empty success.
func (e *Extractor) ExtractText(ctx context.Context, doc commonModels.Document, progress workflowModel.ProgressFunc) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extract", time.Since(start)) }()

	report := monotonic(progress)
	log := e.logger.FromContext(ctx).With("document", doc.Name)

	if doc.IsEmpty() {
		return "", workflowModel.NewExtractionError("No document uploaded.", nil)
	}

	if doc.ContentType != commonModels.PDF && doc.ContentType != "" {
		return e.extractWithoutOCR(doc, report, log)
	}

	report(config.ExtractSetupPct, "Loading PDF...")
	rendered, err := e.renderer.Open(doc.Content)
	if err != nil {
		log.Error("could not open pdf for rendering", "error", err)
		return "", workflowModel.NewExtractionError("Could not open the PDF.", err)
	}
	defer func() {
		if cerr := rendered.Close(); cerr != nil {
			log.Warn("closing rendered document", "error", cerr)
		}
	}()

	pageCount := rendered.NumPage()
	if pageCount < 1 {
		return "", workflowModel.NewExtractionError("The PDF has no pages.", nil)
	}
	report(config.ExtractReadyPct, fmt.Sprintf("Processing %d pages...", pageCount))

	slice := float64(100-config.ExtractReadyPct) / float64(pageCount)
	var text strings.Builder
	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return "", workflowModel.NewExtractionError("Extraction was cancelled.", err)
		}
		base := float64(config.ExtractReadyPct) + float64(page-1)*slice

		pageText, err := e.extractPage(ctx, rendered, page, pageCount, base, slice, report)
		if err != nil {
			log.Error("page extraction failed", "page", page, "error", err)
			return "", err
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	if strings.TrimSpace(text.String()) == "" {
		log.Warn("ocr produced no text", "pages", pageCount)
		return "", workflowModel.NewExtractionError(emptyTextMessage, nil)
	}

	report(100, "OCR Complete.")
	log.Info("extraction complete", "pages", pageCount, "chars", text.Len())
	return text.String(), nil
}

func (e *Extractor) extractPage(ctx context.Context, rendered RenderedDocument, page, pageCount int, base, slice float64, report workflowModel.ProgressFunc) (string, error) {
	report(int(base), fmt.Sprintf("Rendering page %d/%d...", page, pageCount))

	renderStart := time.Now()
	image, err := rendered.RenderPage(page, config.RenderScale)
	metrics.CaptureExecutionMetrics("render_page", time.Since(renderStart))
	if err != nil {
		return "", workflowModel.NewExtractionError(fmt.Sprintf("Failed to render page %d.", page), err)
	}

	status := fmt.Sprintf("Recognizing text on page %d/%d...", page, pageCount)
	report(int(base), status)

	ocrStart := time.Now()
	pageText, err := e.recognizer.Recognize(ctx, image, config.OCRLanguage, func(fraction float64) {
		report(int(base+clampFraction(fraction)*slice), status)
	})
	metrics.CaptureExecutionMetrics("ocr_page", time.Since(ocrStart))
	if err != nil {
		var pe *workflowModel.PipelineError
		if errors.As(err, &pe) {
			return "", pe
		}
		return "", workflowModel.NewExtractionError(fmt.Sprintf("Failed to recognize text on page %d.", page), err)
	}
	return pageText, nil
}

func (e *Extractor) extractWithoutOCR(doc commonModels.Document, report workflowModel.ProgressFunc, log *logger_i.Logger) (string, error) {
	report(config.ExtractReadyPct, "Reading document text...")
	text, err := e.readText(doc.Content)
	if err != nil {
		log.Error("could not read document text", "error", err)
		return "", workflowModel.NewExtractionError("Could not read the document.", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", workflowModel.NewExtractionError("No text could be extracted from the document.", nil)
	}
	report(100, "Text extraction complete.")
	return text, nil
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// monotonic keeps reported percent within 0..100 and never moving backwards.
func monotonic(progress workflowModel.ProgressFunc) workflowModel.ProgressFunc {
	if progress == nil {
		progress = workflowModel.NoProgress
	}
	last := 0
	return func(percent int, status string) {
		if percent > 100 {
			percent = 100
		}
		if percent < last {
			percent = last
		}
		last = percent
		progress(percent, status)
	}
}
