package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

type mockRenderer struct {
	pages    int
	OnRender func(page int) ([]byte, error)
	OnOpen   func(content []byte) error
	closed   bool
}

func (m *mockRenderer) Open(content []byte) (RenderedDocument, error) {
	if m.OnOpen != nil {
		if err := m.OnOpen(content); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *mockRenderer) NumPage() int { return m.pages }

func (m *mockRenderer) RenderPage(page int, scale float64) ([]byte, error) {
	if m.OnRender != nil {
		return m.OnRender(page)
	}
	return []byte(fmt.Sprintf("image-%d", page)), nil
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

type mockRecognizer struct {
	OnRecognize func(image []byte) (string, error)
	calls       int
}

func (m *mockRecognizer) Recognize(ctx context.Context, image []byte, language string, progress func(float64)) (string, error) {
	m.calls++
	progress(0.25)
	progress(1)
	if m.OnRecognize != nil {
		return m.OnRecognize(image)
	}
	return "text of " + string(image), nil
}

func pdfDoc() commonModels.Document {
	return commonModels.Document{Name: "notes.pdf", Content: []byte("%PDF-1.4"), ContentType: commonModels.PDF}
}

func TestExtractText_PagesInOrder(t *testing.T) {
	renderer := &mockRenderer{pages: 4}
	recognizer := &mockRecognizer{}
	e := NewExtractor(renderer, recognizer)

	text, err := e.ExtractText(context.Background(), pdfDoc(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d: %q", len(segments), text)
	}
	for i, seg := range segments {
		want := fmt.Sprintf("text of image-%d", i+1)
		if seg != want {
			t.Errorf("segment %d = %q, want %q", i, seg, want)
		}
	}
	if !renderer.closed {
		t.Error("rendered document was not closed")
	}
}

func TestExtractText_AllBlankIsFailure(t *testing.T) {
	e := NewExtractor(&mockRenderer{pages: 3}, &mockRecognizer{
		OnRecognize: func([]byte) (string, error) { return "  ", nil },
	})

	text, err := e.ExtractText(context.Background(), pdfDoc(), nil)

	if err == nil {
		t.Fatalf("expected failure, got text %q", text)
	}
	if !workflowModel.IsExtractionError(err) {
		t.Errorf("expected extraction error, got %T %v", err, err)
	}
}

func TestExtractText_PageFailureAborts(t *testing.T) {
	recognizer := &mockRecognizer{}
	renderer := &mockRenderer{pages: 5, OnRender: func(page int) ([]byte, error) {
		if page == 2 {
			return nil, errors.New("corrupt page")
		}
		return []byte("img"), nil
	}}
	e := NewExtractor(renderer, recognizer)

	_, err := e.ExtractText(context.Background(), pdfDoc(), nil)

	if !workflowModel.IsExtractionError(err) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if recognizer.calls != 1 {
		t.Errorf("expected OCR to stop after page 1, got %d calls", recognizer.calls)
	}
}

func TestExtractText_ConfigurationErrorPassesThrough(t *testing.T) {
	e := NewExtractor(&mockRenderer{pages: 1}, UnavailableRecognizer{Reason: errors.New("no creds")})

	_, err := e.ExtractText(context.Background(), pdfDoc(), nil)

	if !workflowModel.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExtractText_ProgressIsMonotonic(t *testing.T) {
	e := NewExtractor(&mockRenderer{pages: 3}, &mockRecognizer{})

	var seen []int
	var statuses []string
	_, err := e.ExtractText(context.Background(), pdfDoc(), func(p int, s string) {
		seen = append(seen, p)
		statuses = append(statuses, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress went backwards: %v", seen)
		}
	}
	if seen[0] != 10 || seen[len(seen)-1] != 100 {
		t.Errorf("expected progress 10..100, got %v", seen)
	}
	if statuses[1] != "Processing 3 pages..." || statuses[len(statuses)-1] != "OCR Complete." {
		t.Errorf("unexpected statuses: %v", statuses)
	}
}

func TestExtractText_NonPDFSkipsOCR(t *testing.T) {
	recognizer := &mockRecognizer{}
	e := NewExtractor(&mockRenderer{}, recognizer)
	e.readText = func(content []byte) (string, error) { return string(content), nil }

	doc := commonModels.Document{Name: "notes.txt", Content: []byte("plain notes"), ContentType: commonModels.TXT}
	text, err := e.ExtractText(context.Background(), doc, nil)

	if err != nil || text != "plain notes" {
		t.Fatalf("got %q, %v", text, err)
	}
	if recognizer.calls != 0 {
		t.Errorf("expected no OCR calls, got %d", recognizer.calls)
	}
}

func TestExtractText_EmptyDocument(t *testing.T) {
	e := NewExtractor(&mockRenderer{}, &mockRecognizer{})

	_, err := e.ExtractText(context.Background(), commonModels.Document{}, nil)

	if !workflowModel.IsExtractionError(err) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestNewDocument_RejectsUnknownType(t *testing.T) {
	if _, err := NewDocument("id", "picture.png", []byte{1, 2, 3}); err == nil {
		t.Error("expected an error for png upload")
	}
	if _, err := NewDocument("id", "notes.pdf", nil); err == nil {
		t.Error("expected an error for empty upload")
	}
}
