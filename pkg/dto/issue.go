package dto

// IssueRequest is the body of POST /report-issue. All fields are required.
type IssueRequest struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type IssueResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
