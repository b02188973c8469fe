package models

// AnalysisResult is the preview returned before an import is configured.
type AnalysisResult struct {
	Headers           []string            `json:"headers"`
	PreviewRows       []map[string]string `json:"previewRows"`
	DetectedDelimiter string              `json:"detectedDelimiter"`
	Encoding          string              `json:"encoding"`
}

// ImportProfile is a named, reusable import configuration. Profiles never
// carry an account id; it is supplied per import.
type ImportProfile struct {
	Name   string       `json:"name" yaml:"name"`
	Config ImportConfig `json:"config" yaml:"config"`
}
