package request

type SignUpRequest struct {
	Email           string `json:"email,omitempty" validate:"required,max=255"`
	Password        string `json:"password,omitempty" validate:"required"`
	ConfirmPassword string `json:"confirm_password,omitempty" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,max=255"`
	Password string `json:"password,omitempty" validate:"required"`
	// Next is the page to return to after login; it is only honored when it
	// is a safe relative path.
	Next string `json:"next,omitempty"`
}

type ListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

type ListReorderRequest struct {
	ListIDs []string `json:"list_ids" validate:"required"`
}

type TodoCreateRequest struct {
	ListID string `json:"list_id" validate:"required,uuid"`
	Title  string `json:"title"`
}

type TodoUpdateRequest struct {
	Title    string `json:"title"`
	Note     string `json:"note,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type TodoReorderRequest struct {
	Position int `json:"position"`
}
