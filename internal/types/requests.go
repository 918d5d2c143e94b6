package types

// UpdateResumeRequest is the body of PUT /resumes/{id}: a wholesale
// replacement of the structured data.
type UpdateResumeRequest struct {
	ResumeData *StructuredResume `json:"resumeData" validate:"required"`
}

// RenameResumeRequest is the body of PATCH /resumes/{id}/title.
type RenameResumeRequest struct {
	Title string `json:"title" validate:"required,min=1"`
}

// GenerateSummaryRequest is the optional body of POST /resumes/{id}/generate-summary.
type GenerateSummaryRequest struct {
	JobTitle string `json:"jobTitle,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

// UploadResponse is returned by POST /resumes/upload once the record exists
// and the background tasks have been scheduled.
type UploadResponse struct {
	Message  string `json:"message"`
	ResumeID string `json:"resumeId"`
	Status   string `json:"status"`
}

// AnalyzeResponse is returned by the analyze endpoints.
type AnalyzeResponse struct {
	Message  string       `json:"message"`
	Filename string       `json:"filename"`
	Title    string       `json:"title"`
	ATSScore *ScoreObject `json:"atsScore"`
}
