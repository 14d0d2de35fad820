package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// MatchRequest is the body for POST /api/documents/{id}/match.
type MatchRequest struct {
	Text     string `json:"text"`
	PageHint *int   `json:"pageHint,omitempty"`
}

// MatchResponse wraps the matcher's result for one entry. Result is
// null when there was nothing to rank at all.
type MatchResponse struct {
	Result *match.Result `json:"result"`
}

// MatchEndpoint handles POST /api/documents/{id}/match: find the page
// one index entry most likely refers to.
type MatchEndpoint struct{}

func (e *MatchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/match", e.handler
}

func (e *MatchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "entry text is required")
		return
	}

	store := svcctx.StoreFrom(r.Context())
	matcher := svcctx.MatcherFrom(r.Context())
	if store == nil || matcher == nil {
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

	result := matcher.FindBestPage(r.Context(), req.Text, doc.Pages, req.PageHint)
	writeJSON(w, http.StatusOK, MatchResponse{Result: result})
}

func (e *MatchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var pageHint int
	cmd := &cobra.Command{
		Use:   "match <id> <entry-text>",
		Short: "Find the page an index entry refers to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := MatchRequest{Text: args[1]}
			if cmd.Flags().Changed("page-hint") {
				req.PageHint = &pageHint
			}

			client := api.NewClient(getServerURL())
			var resp MatchResponse
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/match", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&pageHint, "page-hint", 0, "Expected page number from the index entry, if any")
	return cmd
}
