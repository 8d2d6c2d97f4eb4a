package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogHandler   blogHandler
	tagHandler    tagHandler
	userHandler   userHandler
	oauthHandler  oauthHandler
	healthHandler healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Message string `json:"message,omitempty" example:"An unexpected error occurred"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// UserResponse identifies the signed-in author
type UserResponse struct {
	Login string `json:"login" example:"octocat"`
}

// TagCollection lists every known hashtag
type TagCollection struct {
	Tags  []string `json:"tags"`
	Total int      `json:"total"`
}

// HealthResponse reports liveness and uptime
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	StartedAt string `json:"startedAt"`
	Uptime    string `json:"uptime" example:"1h2m3s"`
}
