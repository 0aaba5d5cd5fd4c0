package extract

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// InspectPDF validates an upload and returns its page count. The pdf reader can
// spin on broken xref tables, hence the timeout.
func InspectPDF(content []byte) (int, error) {
	type result struct {
		pages int
		err   error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("malformed pdf: %v", r)}
			}
		}()
		reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
		if err != nil {
			resChan <- result{err: fmt.Errorf("failed to open pdf: %w", err)}
			return
		}
		resChan <- result{pages: reader.NumPage()}
	}()

	select {
	case r := <-resChan:
		return r.pages, r.err
	case <-time.After(config.PDFOpenTimeout):
		return 0, errors.New("timeout reading pdf")
	}
}

// ReadDocumentText reads .odt, .docx, .rtf or plaintext content.
func ReadDocumentText(content []byte) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("failed to extract document text: %w", err)
	}
	return text, nil
}

// NewDocument builds a Document from an upload, validating the content for its type.
func NewDocument(id string, name string, content []byte) (commonModels.Document, error) {
	doc := commonModels.Document{
		Id:          id,
		Name:        name,
		Content:     content,
		ContentType: commonModels.GetDocType(name),
		UploadedAt:  time.Now(),
	}
	if len(content) == 0 {
		return doc, errors.New("document is empty")
	}

	switch doc.ContentType {
	case commonModels.PDF:
		pages, err := InspectPDF(content)
		if err != nil {
			return doc, err
		}
		doc.PageCount = pages
	case commonModels.DOCX, commonModels.TXT:
		doc.PageCount = 1
	default:
		return doc, fmt.Errorf("unsupported document type: %s", name)
	}
	return doc, nil
}
