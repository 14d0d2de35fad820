package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// CreateDocumentRequest is the body for POST /api/documents.
type CreateDocumentRequest struct {
	Title string `json:"title"`
}

// CreateDocumentEndpoint handles POST /api/documents.
type CreateDocumentEndpoint struct{}

func (e *CreateDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents", e.handler
}

func (e *CreateDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	store := svcctx.StoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	doc, err := store.Create(r.Context(), req.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (e *CreateDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Register a new document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var doc docstore.Document
			if err := client.Post(cmd.Context(), "/api/documents",
				CreateDocumentRequest{Title: args[0]}, &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
}

// ListDocumentsEndpoint handles GET /api/documents.
type ListDocumentsEndpoint struct{}

func (e *ListDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents", e.handler
}

func (e *ListDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.StoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	docs, err := store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (e *ListDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var docs []docstore.Document
			if err := client.Get(cmd.Context(), "/api/documents", &docs); err != nil {
				return err
			}
			return api.Output(docs)
		},
	}
}

// GetDocumentEndpoint handles GET /api/documents/{id}.
type GetDocumentEndpoint struct{}

func (e *GetDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}", e.handler
}

func (e *GetDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	store := svcctx.StoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	doc, err := store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (e *GetDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a document by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var doc docstore.Document
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0], &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
}

// DeleteDocumentEndpoint handles DELETE /api/documents/{id}.
type DeleteDocumentEndpoint struct{}

func (e *DeleteDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/documents/{id}", e.handler
}

func (e *DeleteDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	store := svcctx.StoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	if err := store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			return client.Delete(cmd.Context(), "/api/documents/"+args[0])
		},
	}
}
