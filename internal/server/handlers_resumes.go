package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/scoring"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/types"
)

// maxUploadBytes caps resume uploads; real resumes are well under this.
const maxUploadBytes = 10 << 20

// handleUploadResume accepts a multipart resume file, stores it, creates the
// record and schedules the two background tasks. It returns as soon as the
// record exists; progress is observed by polling GET /resumes/{id}.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	data, filename, mimeType, ok := s.readUploadedFile(w, r)
	if !ok {
		return
	}

	text, err := ingestion.ExtractText(data, mimeType)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Could not read the uploaded file: "+err.Error())
		return
	}
	if ingestion.TooShort(text) {
		if mimeType != ingestion.MimePDF {
			s.errorResponse(w, http.StatusBadRequest, "No readable text found in the uploaded file")
			return
		}
		// Scanned PDFs produce no text; proceed with a placeholder so the
		// user still lands in the editor.
		text = ingestion.PDFPlaceholder(filename)
	}

	stored, err := s.files.Store(r.Context(), data, "resumes", filename)
	if err != nil {
		log.Printf("[upload] failed to store file %s: %v", filename, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	resumeID, err := s.db.CreateResume(r.Context(), db.CreateResumeParams{
		UserID:   userID,
		Title:    titleFromFilename(filename),
		Filename: filename,
		FileURL:  stored.URL,
		FileKey:  stored.Key,
		RawText:  text,
		Status:   types.StatusAnalyzing,
	})
	if err != nil {
		log.Printf("[upload] failed to create resume record: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create resume")
		return
	}

	s.orchestrator.ProcessUpload(resumeID, text, s.accountFor(r, userID))

	s.jsonResponse(w, http.StatusCreated, types.UploadResponse{
		Message:  "Resume uploaded. Analysis in progress.",
		ResumeID: resumeID.String(),
		Status:   types.StatusAnalyzing,
	})
}

// handleCreateResume creates a blank resume for manual editing. No file, no
// background work; the record is complete immediately.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Title string `json:"title,omitempty"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // body is optional
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled Resume"
	}

	data := types.EmptyResume()
	score := &types.ScoreObject{
		Improvements: []string{"Start adding your details to build your resume"},
	}

	resumeID, err := s.db.CreateResume(r.Context(), db.CreateResumeParams{
		UserID:       userID,
		Title:        title,
		Data:         data,
		CurrentScore: score,
		Status:       types.StatusCompleted,
	})
	if err != nil {
		log.Printf("[create] failed to create blank resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create resume")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"resumeId": resumeID.String(),
		"title":    title,
		"resume":   data,
		"atsScore": score,
		"status":   types.StatusCompleted,
	})
}

// handleListResumes returns the caller's resumes, newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summaries, err := s.db.ListResumes(r.Context(), userID)
	if err != nil {
		log.Printf("[list] failed to list resumes: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list resumes")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": summaries})
}

// handleGetResume returns a single resume record.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, _, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateResume persists a manual edit and recomputes the current score
// from the edited data in the same write.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	resume, userID, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}

	var req types.UpdateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	req.ResumeData.Normalize()
	score := scoring.RecomputeScore(req.ResumeData)

	if err := s.db.UpdateResumeData(r.Context(), resume.ID, userID, req.ResumeData, score); err != nil {
		log.Printf("[update] failed to update resume %s: %v", resume.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume":   req.ResumeData,
		"atsScore": score,
	})
}

// handleRenameResume changes a resume's title only.
func (s *Server) handleRenameResume(w http.ResponseWriter, r *http.Request) {
	resume, userID, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}

	var req types.RenameResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.errorResponse(w, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	if err := s.db.UpdateTitle(r.Context(), resume.ID, userID, title); err != nil {
		log.Printf("[rename] failed to rename resume %s: %v", resume.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to rename resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Title updated", "title": title})
}

// handleDeleteResume removes the record and, best effort, the stored file.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	resume, userID, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}

	fileKey, err := s.db.DeleteResume(r.Context(), resume.ID, userID)
	if err != nil {
		log.Printf("[delete] failed to delete resume %s: %v", resume.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete resume")
		return
	}

	// The record is gone; a stranded file is only worth a log line.
	if fileKey != "" {
		if err := s.files.Delete(r.Context(), fileKey); err != nil {
			log.Printf("[delete] failed to delete stored file %s: %v", fileKey, err)
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume deleted"})
}

// handleGenerateResume re-runs extraction over the stored raw text. Serves
// both /generate and /regenerate; the work is identical.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	resume, userID, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}

	if ingestion.TooShort(resume.RawText) {
		s.errorResponse(w, http.StatusBadRequest, "No resume text available to generate from")
		return
	}

	if err := s.db.UpdateStatus(r.Context(), resume.ID, types.StatusGenerating); err != nil {
		log.Printf("[generate] failed to set status for %s: %v", resume.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start generation")
		return
	}

	s.orchestrator.Regenerate(resume.ID, resume.RawText, s.accountFor(r, userID))

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"message": "Resume generation started",
		"status":  types.StatusGenerating,
	})
}

// handleAnalyzeResume re-scores an existing record's raw text synchronously
// and persists the result as the original score.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	resume, _, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}

	if ingestion.TooShort(resume.RawText) {
		s.errorResponse(w, http.StatusBadRequest, "No resume text available to analyze")
		return
	}

	score := s.analysis.Analyze(r.Context(), resume.RawText)
	if err := s.db.UpdateOriginalScore(r.Context(), resume.ID, score); err != nil {
		log.Printf("[analyze] failed to store score for %s: %v", resume.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store analysis result")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AnalyzeResponse{
		Message:  "Analysis complete",
		Filename: resume.Filename,
		Title:    resume.Title,
		ATSScore: score,
	})
}

// handleAnalyzeFile scores an ad-hoc uploaded file without creating any
// record: the caller gets the score back and nothing is persisted.
func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserID(r); err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	data, filename, mimeType, ok := s.readUploadedFile(w, r)
	if !ok {
		return
	}

	text, err := ingestion.ExtractText(data, mimeType)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Could not read the uploaded file: "+err.Error())
		return
	}
	if ingestion.TooShort(text) {
		s.errorResponse(w, http.StatusBadRequest, "No readable text found in the uploaded file")
		return
	}

	score := s.analysis.Analyze(r.Context(), text)

	s.jsonResponse(w, http.StatusOK, types.AnalyzeResponse{
		Message:  "Analysis complete",
		Filename: filename,
		ATSScore: score,
	})
}

// handleGenerateSummary writes a professional summary from the stored
// structured data. Synchronous; the result is returned, not persisted.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	resume, _, ok := s.loadOwnedResume(w, r)
	if !ok {
		return
	}
	if resume.Data == nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume has no structured data yet")
		return
	}

	var req types.GenerateSummaryRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // body is optional
	}

	prompt := buildSummaryPrompt(resume.Data, req.JobTitle, req.Tone)
	summary, err := s.llmClient.GenerateContent(r.Context(), prompt, llm.TierPrimary)
	if err != nil {
		log.Printf("[summary] generation failed for %s: %v", resume.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate summary")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": cleanSummary(summary)})
}

// loadOwnedResume resolves {id}, loads the record owner-scoped, and writes
// the error response itself when anything is off.
func (s *Server) loadOwnedResume(w http.ResponseWriter, r *http.Request) (*db.Resume, uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, uuid.Nil, false
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return nil, uuid.Nil, false
	}

	resume, err := s.db.GetResume(r.Context(), resumeID, userID)
	if err != nil {
		log.Printf("[resumes] failed to load resume %s: %v", resumeID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load resume")
		return nil, uuid.Nil, false
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrResumeNotFound{ResumeID: resumeID}).Error())
		return nil, uuid.Nil, false
	}
	return resume, userID, true
}

// readUploadedFile pulls the multipart "file" part into memory and resolves
// its MIME type. Writes the error response itself on failure.
func (s *Server) readUploadedFile(w http.ResponseWriter, r *http.Request) ([]byte, string, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, "", "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing file upload")
		return nil, "", "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, "", "", false
	}

	mimeType := detectMimeType(header.Filename, header.Header.Get("Content-Type"))
	return data, header.Filename, mimeType, true
}

// accountFor loads the uploader's identity for the safe-default resume. A
// lookup failure is tolerable; the default just loses the prefilled name.
func (s *Server) accountFor(r *http.Request, userID uuid.UUID) pipeline.Account {
	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil || user == nil {
		log.Printf("[resumes] failed to load account %s: %v", userID, err)
		return pipeline.Account{}
	}
	return pipeline.Account{Name: user.Name, Email: user.Email}
}

// detectMimeType resolves the effective MIME type, preferring the file
// extension over the browser-supplied content type.
func detectMimeType(filename, contentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ingestion.MimePDF
	case ".docx":
		return ingestion.MimeDOCX
	case ".txt":
		return ingestion.MimePlain
	}
	return contentType
}

// titleFromFilename derives the default resume title from the uploaded
// filename, minus its extension.
func titleFromFilename(filename string) string {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled Resume"
	}
	return title
}

// buildSummaryPrompt assembles the summary-generation prompt from whatever
// structured data the resume has.
func buildSummaryPrompt(data *types.StructuredResume, jobTitle, tone string) string {
	if tone == "" {
		tone = "professional"
	}
	target := jobTitle
	if target == "" && len(data.Experience) > 0 {
		target = data.Experience[0].Title
	}

	skills := make([]string, 0, 8)
	for _, s := range append(append([]string{}, data.Skills.Technical...), data.Skills.Tools...) {
		if len(skills) == 8 {
			break
		}
		skills = append(skills, s)
	}

	titles := make([]string, 0, 3)
	for i, exp := range data.Experience {
		if i == 3 {
			break
		}
		titles = append(titles, fmt.Sprintf("%s at %s", exp.Title, exp.Company))
	}

	return fmt.Sprintf(`Write a compelling 2-3 sentence professional resume summary in a %s tone.

Target role: %s
Positions held: %d (%s)
Key skills: %s

Rules:
- Write in first person implied (no "I" or "my")
- Mention concrete strengths, not generic filler
- Return ONLY the summary text, no quotes, no preamble`,
		tone, target, len(data.Experience), strings.Join(titles, "; "), strings.Join(skills, ", "))
}

// cleanSummary strips wrapping quotes and collapses newlines out of the
// model's summary text.
func cleanSummary(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.Join(strings.Fields(text), " ")
}
