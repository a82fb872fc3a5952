package dto

type GetHeadlinesResponse struct {
	Country  string      `json:"country"`
	Category string      `json:"category,omitempty"`
	Articles []SourceDTO `json:"articles"`
}
