package predict

// ImageRequest is the body of POST /predict. Image holds either a bare base64
// payload or a data-URL (`data:image/...;base64,...`).
type ImageRequest struct {
	Image string `json:"image"`
}

// ExtractionFailureDetail is the detail object returned when the upstream
// answered but its text could not be reduced to a valid result. RawResponse
// carries at most the first 500 characters of the upstream text.
type ExtractionFailureDetail struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	RawResponse string `json:"raw_response"`
}

// StatusResponse is the GET / liveness payload.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
