package handlers

import (
	"io"
	"net/http"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/pipeline/extract"
)

// PostDocumentHandler godoc
// @Summary      Upload a document and open a session
// @Description  Receives a PDF (or docx/odt/rtf/txt) via multipart/form-data, validates it and opens a new session holding it.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The file to study"
// @Success      201  {object}  api.DocumentResponse  "Session created"
// @Failure      400  {object}  api.JobResponse       "Missing file, file too large or unreadable document"
// @Router       /documents [post]
func (h *Handler) PostDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	doc, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	sessionId := h.orchestrator.CreateSession(r.Context())
	if err := h.orchestrator.SetDocument(r.Context(), sessionId, doc); err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusCreated, adapter.ToDocumentResponse(sessionId, doc))
}

// PutDocumentHandler godoc
// @Summary      Replace the session document
// @Description  Replaces the document, resetting every workflow to idle. Runs still in flight are discarded when they finish.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      string  true  "Session ID"
// @Param        document  formData  file    true  "The file to study"
// @Success      200  {object}  api.DocumentResponse
// @Failure      400  {object}  api.JobResponse
// @Failure      404  {object}  api.JobResponse  "Session not found"
// @Router       /sessions/{id}/document [put]
func (h *Handler) PutDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	doc, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	if err := h.orchestrator.SetDocument(r.Context(), sessionId, doc); err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(sessionId, doc))
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (commonModels.Document, bool) {
	log := h.logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return commonModels.Document{}, false
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return commonModels.Document{}, false
	}
	defer fileReader.Close()

	content, err := io.ReadAll(fileReader)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Could not read file")
		return commonModels.Document{}, false
	}

	doc, err := extract.NewDocument(utils.GetNewUUID(), fileMetadata.Filename, content)
	if err != nil {
		log.Warn("rejected upload", "document", fileMetadata.Filename, "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, err.Error())
		return commonModels.Document{}, false
	}
	log.Info("document received", "document", doc.Name, "pages", doc.PageCount, "type", doc.ContentType)
	return doc, true
}
