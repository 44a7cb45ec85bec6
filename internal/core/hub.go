package core

import "time"

// Shared hub records: lightweight tasks, checklists and ideas shared
// between the account's users. They carry no money and stay out of all
// financial rollups.

const (
	TaskPending = "pending"
	TaskDone    = "done"
)

type (
	SharedTask struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		Notes       string     `json:"notes,omitempty"`
		DueDate     string     `json:"dueDate,omitempty"` // YYYY-MM-DD
		Status      string     `json:"status,omitempty"`
		AssignedTo  string     `json:"assignedTo,omitempty"`
		Highlighted bool       `json:"highlighted,omitempty"`
		CompletedBy string     `json:"completedBy,omitempty"`
		CompletedAt *time.Time `json:"completedAt,omitempty"`
		CreatedBy   string     `json:"createdBy,omitempty"`
		CreatedAt   time.Time  `json:"createdAt,omitempty"`
	}

	ListItem struct {
		ID        string     `json:"id"`
		Text      string     `json:"text"`
		Checked   bool       `json:"checked,omitempty"`
		CheckedBy string     `json:"checkedBy,omitempty"`
		CheckedAt *time.Time `json:"checkedAt,omitempty"`
	}

	SharedList struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Items       []ListItem `json:"items,omitempty"`
		Highlighted bool       `json:"highlighted,omitempty"`
		CreatedBy   string     `json:"createdBy,omitempty"`
		CreatedAt   time.Time  `json:"createdAt,omitempty"`
	}

	SharedIdea struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Notes       string    `json:"notes,omitempty"`
		Category    string    `json:"category,omitempty"`
		Status      string    `json:"status,omitempty"`
		Highlighted bool      `json:"highlighted,omitempty"`
		CreatedBy   string    `json:"createdBy,omitempty"`
		CreatedAt   time.Time `json:"createdAt,omitempty"`
	}
)
