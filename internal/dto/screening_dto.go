package dto

// AnalyzeRequest represents a screening analysis request
// @Description file is base64 encoded; mimeType is required with it
type AnalyzeRequest struct {
	MedicalHistory string `json:"medicalHistory"`
	File           string `json:"file,omitempty"`
	MimeType       string `json:"mimeType,omitempty"`
	Model          string `json:"model,omitempty"`
}
