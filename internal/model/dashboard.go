package model

import "time"

type Activity struct {
	Date        time.Time `json:"activity_date"`
	Description string    `json:"activity_description"`
	Type        string    `json:"activity_type"`
}

type PlatformStats struct {
	UsersByRole          map[string]int `json:"users_by_role"`
	JobsByStatus         map[string]int `json:"jobs_by_status"`
	ApplicationsByStatus map[string]int `json:"applications_by_status"`
}
