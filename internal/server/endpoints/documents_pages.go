package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/ingest"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// UploadPagesRequest is the body for PUT /api/documents/{id}/pages.
type UploadPagesRequest struct {
	Pages []corpus.PageText `json:"pages"`
}

// UploadPagesEndpoint handles PUT /api/documents/{id}/pages. It replaces
// the document's OCR pages wholesale.
type UploadPagesEndpoint struct{}

func (e *UploadPagesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/documents/{id}/pages", e.handler
}

func (e *UploadPagesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	var req UploadPagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Pages) == 0 {
		writeError(w, http.StatusBadRequest, "at least one page is required")
		return
	}

	store := svcctx.StoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	doc, err := store.SetPages(r.Context(), id, req.Pages)
	if err != nil {
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Don't echo the full page text back on upload.
	doc.Pages = nil
	writeJSON(w, http.StatusOK, doc)
}

func (e *UploadPagesEndpoint) Command(getServerURL func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <id> <ocr-dir>",
		Short: "Upload OCR page text from a sidecar directory",
		Long: `Reads per-page OCR text files (page_0001.txt, page_0002.txt, ...)
from a directory and uploads them as the document's pages.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := ingest.PagesFromOCRDir(args[1], 0)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var doc docstore.Document
			if err := client.Put(cmd.Context(), "/api/documents/"+args[0]+"/pages",
				UploadPagesRequest{Pages: pages}, &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
	return cmd
}
