package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/estatecrm/internal/core"
)

// multipartOverhead is allowed on top of the CSV size for form boundaries
// and part headers.
const multipartOverhead = 1 << 20

// handleImport accepts a CSV as multipart field "file" or as the raw body.
//
//	POST /api/leads/import?policy=skip|reject|update&assignee=<member id>
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := s.readImportBody(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	q := r.URL.Query()
	result, err := s.service.Import(r.Context(), core.ImportRequest{
		TenantID:          tenantFromContext(r.Context()),
		CSV:               data,
		Policy:            core.DuplicatePolicy(q.Get("policy")),
		DefaultAssigneeID: q.Get("assignee"),
		FileName:          fileName,
	})
	if err != nil {
		if result != nil {
			respondErrorWithResult(w, r, err, statusFor(err), result)
			return
		}
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// readImportBody returns the CSV payload and its file name, if any. Bodies
// over the configured size fail with core.ErrFileTooLarge.
func (s *Server) readImportBody(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	maxSize := s.cfg.Import.MaxFileSize

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", bodyError(err)
		}
		return data, "", nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, "", bodyError(err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: no file field in form", core.ErrEmptyInput)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", bodyError(err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", core.ErrFileTooLarge
	}
	return data, header.Filename, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return core.ErrFileTooLarge
	}
	return fmt.Errorf("read request body: %w", err)
}

// handleExport streams the filtered leads as a CSV attachment.
//
//	GET /api/leads/export?status=&source=&priority=&assignee=&search=
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFromContext(r.Context())
	q := r.URL.Query()
	filter := core.ListFilter{
		Status:     core.LeadStatus(strings.ToLower(q.Get("status"))),
		Source:     core.LeadSource(strings.ToLower(q.Get("source"))),
		Priority:   core.LeadPriority(strings.ToLower(q.Get("priority"))),
		AssigneeID: q.Get("assignee"),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	data, err := s.service.Export(r.Context(), tenantID, filter)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, core.ExportFileName(tenantID, time.Now())))
	w.Write(data)
}

type bulkRequest struct {
	IDs        []string `json:"ids"`
	AssigneeID string   `json:"assigneeId"`
}

var errBadJSON = errors.New("invalid request body")

func decodeBulk(r *http.Request) (bulkRequest, error) {
	var req bulkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", errBadJSON, err)
	}
	return req, nil
}

// handleBulkDelete deletes the given leads of the tenant.
//
//	POST /api/leads/bulk-delete {"ids": [...]}
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBulk(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.BulkDelete(r.Context(), tenantFromContext(r.Context()), req.IDs)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleBulkAssign assigns the given leads to one member.
//
//	POST /api/leads/bulk-assign {"ids": [...], "assigneeId": "..."}
func (s *Server) handleBulkAssign(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBulk(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.BulkAssign(r.Context(), tenantFromContext(r.Context()), req.IDs, req.AssigneeID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

type healthResponse struct {
	Status  string             `json:"status"`
	Imports core.LimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Imports: s.service.Limiter().Status(),
	})
}
