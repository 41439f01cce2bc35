package dto

// CreateTaskRequest is the payload for adding a task.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TaskResponse is the outward representation of a task.
type TaskResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
	DoneAt    *int64 `json:"done_at,omitempty"`
}
