package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type VisionRecognizer struct {
	client *vision.ImageAnnotatorClient
	logger *logger_i.Logger
}

// ClientOptionsFromEnv accepts either inline credentials json or a key file path.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func NewVisionRecognizer(ctx context.Context) (*VisionRecognizer, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	r := &VisionRecognizer{client: client, logger: logger_i.NewLogger("OCR Vision")}
	go func() {
		<-ctx.Done()
		r.logger.Info("Closing vision client")
		_ = client.Close()
	}()
	return r, nil
}

// tesseract style codes to the BCP-47 hints vision expects
var languageHints = map[string]string{
	"eng": "en",
	"fra": "fr",
	"deu": "de",
	"spa": "es",
}

func (v *VisionRecognizer) Recognize(ctx context.Context, image []byte, language string, progress func(float64)) (string, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	progress(0)
	if len(image) == 0 {
		progress(1)
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.OCRPageTimeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: image},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	}
	if hint, ok := languageHints[language]; ok {
		req.ImageContext = &visionpb.ImageContext{LanguageHints: []string{hint}}
	}

	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return "", classifyVisionError(err)
	}
	progress(0.5)

	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		progress(1)
		return "", nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	progress(1)
	if r0.FullTextAnnotation == nil {
		return "", nil
	}
	return r0.FullTextAnnotation.Text, nil
}

func classifyVisionError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return workflowModel.NewConfigurationError("OCR service credentials are missing or invalid.", err)
	}
	return fmt.Errorf("vision BatchAnnotateImages: %w", err)
}

// UnavailableRecognizer stands in when the OCR client could not be built, so
// the failure surfaces as a configuration error on use instead of at startup.
type UnavailableRecognizer struct {
	Reason error
}

func (u UnavailableRecognizer) Recognize(context.Context, []byte, string, func(float64)) (string, error) {
	return "", workflowModel.NewConfigurationError("OCR service is not configured. Set GOOGLE_APPLICATION_CREDENTIALS.", u.Reason)
}
