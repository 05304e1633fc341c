package apitools

import "encoding/json"

// Result is the normalized outcome of one HTTP tool invocation.
type Result struct {
	Success    bool        `json:"success"`
	StatusCode *int        `json:"status_code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	URL        string      `json:"url"`
	Method     string      `json:"method"`
}

// String renders the result as compact JSON for tool output.
func (r Result) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"unencodable result"}`
	}
	return string(data)
}
