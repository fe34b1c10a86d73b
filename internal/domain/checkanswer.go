package domain

import "time"

// TaskCheckAnswer is an immutable checklist response attached to a task.
type TaskCheckAnswer struct {
	ID         string
	TaskID     string
	QuestionID *string
	Label      string
	FieldType  FieldType
	BoolValue  *bool
	TextValue  *string
	ImagePath  *string
	CreatedAt  time.Time
}
