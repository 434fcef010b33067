package domain

// Submission is the intake request. Exactly one of DocumentURL and
// DocumentText must be set; the URL has to look like a document link.
type Submission struct {
	DocumentURL  string `json:"document_url" validate:"omitempty,url"`
	DocumentText string `json:"document_text"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
}

// InputRef returns the document reference stored on the job.
func (s Submission) InputRef() string {
	if s.DocumentURL != "" {
		return s.DocumentURL
	}
	return s.DocumentText
}

func (s Submission) Contact() Contact {
	return Contact{Name: s.Name, Email: s.Email, Phone: s.Phone}
}
