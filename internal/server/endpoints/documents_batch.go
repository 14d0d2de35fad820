package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// BatchRequest is the body for POST /api/documents/{id}/batch.
type BatchRequest struct {
	Entries []match.Entry `json:"entries"`
}

// BatchEndpoint handles POST /api/documents/{id}/batch: map every index
// entry to its page in one pass, with per-confidence-band counts.
type BatchEndpoint struct{}

func (e *BatchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/batch", e.handler
}

func (e *BatchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "at least one entry is required")
		return
	}
	for i, entry := range req.Entries {
		if strings.TrimSpace(entry.Text) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("entry %d: text is required", i))
			return
		}
	}

	store := svcctx.StoreFrom(r.Context())
	batch := svcctx.BatchFrom(r.Context())
	if store == nil || batch == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
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
	if len(doc.Pages) == 0 {
		writeError(w, http.StatusConflict, "document has no pages uploaded")
		return
	}

	result := batch.MapAll(r.Context(), req.Entries, doc.Pages)
	writeJSON(w, http.StatusOK, result)
}

// readBatchRequest loads the entry list from a file or stdin.
func readBatchRequest(cmd *cobra.Command, entriesFile string) (*BatchRequest, error) {
	var data []byte
	var err error
	if entriesFile != "" {
		data, err = os.ReadFile(entriesFile)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	var req BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse entries JSON: %w", err)
	}
	if len(req.Entries) == 0 {
		return nil, fmt.Errorf("no entries provided")
	}
	return &req, nil
}

func (e *BatchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var entriesFile string
	cmd := &cobra.Command{
		Use:   "batch <id>",
		Short: "Map every index entry to a page in one pass",
		Long: `Reads entries as JSON from --entries-file (or stdin when omitted):
  {"entries": [{"text": "Affidavit of ...", "pageHint": 12}, ...]}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readBatchRequest(cmd, entriesFile)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var result match.BatchResult
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/batch", req, &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
	cmd.Flags().StringVar(&entriesFile, "entries-file", "", "JSON file holding the entry list (default: stdin)")
	return cmd
}
