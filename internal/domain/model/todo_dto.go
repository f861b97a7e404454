package model

// TodoDTO is the request payload accepted by create and update.
// Server-managed fields (id, createdAt, updatedAt) are not part of it.
type TodoDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
