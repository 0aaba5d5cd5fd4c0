package commonModels

import (
	"path/filepath"
	"strings"
	"time"
)

// Document is the uploaded source file. Name doubles as the document identity
// used by the fixed image and story tables.
type Document struct {
	Id          string    `json:"source_doc_id"`
	Name        string    `json:"doc_name"`
	Content     []byte    `json:"-"`
	ContentType DocType   `json:"contentType"`
	PageCount   int       `json:"page_count"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (d Document) Identity() string {
	return d.Name
}

func (d Document) IsEmpty() bool {
	return len(d.Content) == 0
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

func GetDocType(name string) DocType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF
	case ".docx", ".odt", ".rtf":
		return DOCX
	case ".txt", ".md":
		return TXT
	default:
		return ERR
	}
}
