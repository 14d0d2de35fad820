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
	"github.com/Gurmittoor/hyperlinklaw/internal/resolver"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// ResolveRequest is the body for POST /api/documents/{id}/resolve.
type ResolveRequest struct {
	Text     string `json:"text"`
	PageHint *int   `json:"pageHint,omitempty"`
}

// ResolveResponse pairs the matcher's ranking with the resolver's
// verdict over it.
type ResolveResponse struct {
	Match    *match.Result      `json:"match"`
	Decision *resolver.Decision `json:"decision"`
}

// ResolveEndpoint handles POST /api/documents/{id}/resolve: run the
// matcher for one entry, then hand its candidate pages to the LLM
// arbiter for a pick-or-review verdict. With no API key configured the
// verdict is always needs_review.
type ResolveEndpoint struct{}

func (e *ResolveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/resolve", e.handler
}

func (e *ResolveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	var req ResolveRequest
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
	arbiter := svcctx.ResolverFrom(r.Context())
	if store == nil || matcher == nil || arbiter == nil {
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

	var candidates []resolver.Candidate
	if result != nil {
		for _, ps := range result.Matches {
			candidates = append(candidates, resolver.Candidate{
				DestPage:   ps.Page,
				Confidence: ps.Confidence,
				Method:     "fuzzy",
			})
		}
	}

	decision, err := arbiter.Resolve(r.Context(), req.Text, candidates)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Match: result, Decision: decision})
}

func (e *ResolveEndpoint) Command(getServerURL func() string) *cobra.Command {
	var pageHint int
	cmd := &cobra.Command{
		Use:   "resolve <id> <entry-text>",
		Short: "Match an entry, then arbitrate the candidates with the LLM resolver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ResolveRequest{Text: args[1]}
			if cmd.Flags().Changed("page-hint") {
				req.PageHint = &pageHint
			}

			client := api.NewClient(getServerURL())
			var resp ResolveResponse
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/resolve", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&pageHint, "page-hint", 0, "Expected page number from the index entry, if any")
	return cmd
}
