package apiserver

import (
	"net/http"

	"github.com/thumbasm/thumbasm"
	"github.com/thumbasm/thumbasm/internal/asmerr"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleAssemble implements POST /assemble: decode the request lines, call
// straight into thumbasm.Assemble, and report the half-words or the first
// fatal error with its source line.
func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AssembleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: %v", err)
		return
	}

	halfwords, err := thumbasm.Assemble(req.Lines)
	if err != nil {
		resp := ErrorResponse{Error: err.Error()}
		if asmErr, ok := err.(*asmerr.Error); ok {
			resp.Line = asmErr.Pos.Line
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	writeJSON(w, http.StatusOK, AssembleResponse{Halfwords: halfwords})
}
