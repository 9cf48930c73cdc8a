package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/teemow/mailgate/internal/gmail"
	"github.com/teemow/mailgate/internal/logging"
	"github.com/teemow/mailgate/internal/tools"
)

const defaultListPageSize = 10

// labelRequest is the body of the label add/remove endpoints.
type labelRequest struct {
	LabelIDs []string `json:"label_ids"`
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	pageSize := int64(defaultListPageSize)
	if raw := query.Get("max_results"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_results must be an integer")
			return
		}
		pageSize = parsed
	}

	var labelIDs []string
	if raw := query.Get("label_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				labelIDs = append(labelIDs, id)
			}
		}
	}

	result, err := mailboxFrom(r.Context()).List(r.Context(), query.Get("q"), pageSize, query.Get("page_token"), labelIDs)
	if err != nil {
		s.writeMailboxError(w, r, "list_messages", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	detail, err := mailboxFrom(r.Context()).Get(r.Context(), chi.URLParam(r, "messageID"))
	if err != nil {
		s.writeMailboxError(w, r, "get_message", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAddLabels(w http.ResponseWriter, r *http.Request) {
	labelIDs, ok := s.decodeLabelRequest(w, r)
	if !ok {
		return
	}
	outcome := mailboxFrom(r.Context()).AddLabels(r.Context(), chi.URLParam(r, "messageID"), labelIDs)
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleRemoveLabels(w http.ResponseWriter, r *http.Request) {
	labelIDs, ok := s.decodeLabelRequest(w, r)
	if !ok {
		return
	}
	outcome := mailboxFrom(r.Context()).RemoveLabels(r.Context(), chi.URLParam(r, "messageID"), labelIDs)
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleTrashMessage(w http.ResponseWriter, r *http.Request) {
	outcome, err := mailboxFrom(r.Context()).Trash(r.Context(), chi.URLParam(r, "messageID"))
	if err != nil {
		s.writeMailboxError(w, r, "trash_message", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := mailboxFrom(r.Context()).ListLabels(r.Context())
	if err != nil {
		s.writeMailboxError(w, r, "list_labels", err)
		return
	}
	if labels == nil {
		labels = []gmail.Label{}
	}
	writeJSON(w, http.StatusOK, labels)
}

// handleToolCatalog exposes the MCP tool definitions so agent frameworks can
// discover the mailbox operations without a live session.
func (s *Server) handleToolCatalog(w http.ResponseWriter, _ *http.Request) {
	catalog := tools.Catalog()

	defs := make([]map[string]any, 0, len(catalog))
	for _, tool := range catalog {
		defs = append(defs, map[string]any{
			"name":         tool.Name,
			"description":  tool.Description,
			"input_schema": tool.InputSchema,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": defs,
		"count": len(defs),
	})
}

func (s *Server) decodeLabelRequest(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if len(req.LabelIDs) == 0 {
		writeError(w, http.StatusBadRequest, "label_ids is required")
		return nil, false
	}
	return req.LabelIDs, true
}

// writeMailboxError translates mailbox errors into HTTP status codes.
func (s *Server) writeMailboxError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, gmail.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gmail.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "message not found")
	default:
		s.logger.Error("mailbox operation failed",
			logging.Operation(operation),
			logging.Route(r.URL.Path),
			logging.UserHash(ownerFrom(r.Context())),
			logging.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
