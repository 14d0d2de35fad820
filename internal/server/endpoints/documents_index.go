package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// DetectIndexEndpoint handles GET /api/documents/{id}/index. It scans
// the document's leading pages for an index/table-of-tabs and returns
// the per-page detections plus the merged entry list.
type DetectIndexEndpoint struct{}

func (e *DetectIndexEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/index", e.handler
}

func (e *DetectIndexEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	store := svcctx.StoreFrom(r.Context())
	detector := svcctx.DetectorFrom(r.Context())
	if store == nil || detector == nil {
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

	opts := indexdetect.DefaultScanOptions()
	if mgr := svcctx.ConfigManagerFrom(r.Context()); mgr != nil {
		opts = mgr.Get().Engine.Scan
	}
	if v := r.URL.Query().Get("expected_tabs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "expected_tabs must be a non-negative integer")
			return
		}
		opts.ExpectedTabs = n
	}

	result := detector.ScanDocument(doc.Pages, opts)
	writeJSON(w, http.StatusOK, result)
}

func (e *DetectIndexEndpoint) Command(getServerURL func() string) *cobra.Command {
	var expectedTabs int
	cmd := &cobra.Command{
		Use:   "index <id>",
		Short: "Detect a document's index pages and entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/documents/" + args[0] + "/index"
			if expectedTabs > 0 {
				path += fmt.Sprintf("?expected_tabs=%d", expectedTabs)
			}

			client := api.NewClient(getServerURL())
			var result indexdetect.ScanResult
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
	cmd.Flags().IntVar(&expectedTabs, "expected-tabs", 0, "Expected number of tab entries (enables completeness check)")
	return cmd
}
