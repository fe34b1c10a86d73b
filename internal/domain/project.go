package domain

import "time"

type Project struct {
	ID        string
	Name      string
	StartDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields returns the diffable attributes of the project.
func (p *Project) Fields() map[string]any {
	return map[string]any{
		"name":       p.Name,
		"start_date": p.StartDate,
	}
}
