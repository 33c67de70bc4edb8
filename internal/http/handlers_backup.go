package http

import (
	"bytes"
	"net/http"
	"time"

	"taxiledger/internal/log"
	"taxiledger/internal/records"
	"taxiledger/internal/services"
)

// handleBackupExport sends the snapshot as a download. It is encoded into a
// buffer first so a failed read still produces a proper error reply.
func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.Backup.ExportJSON(r.Context(), &buf); err != nil {
		s.fail(w, r, log.OpExport, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.FileName(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleBackupRestore(w http.ResponseWriter, r *http.Request) {
	var snap records.Snapshot
	if err := decodeJSONLimit(w, r, &snap, maxBackupBytes); err != nil {
		s.fail(w, r, log.OpRestore, err)
		return
	}
	stats, err := s.svc.Backup.Restore(r.Context(), snap)
	if err != nil {
		s.fail(w, r, log.OpRestore, err)
		return
	}
	NewJSONResponse().Body(stats).Write(w)
}
