package response

import (
	"time"

	"todolists/internal/core/domain"
)

type UserResponse struct {
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UUID:      u.UUID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ListResponse struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewListResponse(l domain.List) ListResponse {
	return ListResponse{
		UUID:        l.UUID.String(),
		Name:        l.Name,
		Description: l.Description,
		Color:       l.Color,
		Position:    l.Position,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func NewListResponses(lists []domain.List) []ListResponse {
	out := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, NewListResponse(l))
	}
	return out
}

type TodoResponse struct {
	UUID        string     `json:"uuid"`
	Title       string     `json:"title"`
	Note        string     `json:"note,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewTodoResponse(t domain.Todo) TodoResponse {
	resp := TodoResponse{
		UUID:        t.UUID.String(),
		Title:       t.Title,
		Note:        t.Note,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.Priority != nil {
		p := string(*t.Priority)
		resp.Priority = &p
	}

	return resp
}

func NewTodoResponses(todos []domain.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, NewTodoResponse(t))
	}
	return out
}

// TodoWithCountResponse carries the sidebar badge count alongside the todo,
// so a single mutation response can refresh both views.
type TodoWithCountResponse struct {
	Todo            TodoResponse `json:"todo"`
	IncompleteCount int          `json:"incomplete_count"`
}

type SessionResponse struct {
	Token    string       `json:"token"`
	User     UserResponse `json:"user"`
	Redirect string       `json:"redirect,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
