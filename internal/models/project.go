package models

import (
	"slices"
	"time"
)

// Project is a tenant. Dashboards lists the dashboard ids the project may
// read or mutate.
type Project struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Dashboards []string  `json:"dashboards" db:"dashboards"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Project) HasDashboard(id string) bool {
	return slices.Contains(p.Dashboards, id)
}
