package extract

import (
	"fmt"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/gen2brain/go-fitz"
)

// FitzRenderer rasterises pages with MuPDF.
type FitzRenderer struct{}

func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

func (FitzRenderer) Open(content []byte) (RenderedDocument, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (f *fitzDocument) NumPage() int {
	return f.doc.NumPage()
}

// fitz pages are zero based
func (f *fitzDocument) RenderPage(page int, scale float64) ([]byte, error) {
	png, err := f.doc.ImagePNG(page-1, config.BaseRenderDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return png, nil
}

func (f *fitzDocument) Close() error {
	return f.doc.Close()
}
