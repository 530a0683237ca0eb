package models

import "gorm.io/datatypes"

// Job - вакансия. Создается нанимателем или админом,
// соискателям видны только строки с is_active = true.
type Job struct {
	BaseModel
	HirerID      string                      `gorm:"type:uuid;index;not null" json:"hirer_id"`
	Title        string                      `gorm:"not null" json:"title"`
	CompanyName  string                      `json:"company_name"`
	Location     string                      `json:"location"`
	JobType      string                      `json:"job_type"`
	SalaryRange  string                      `json:"salary_range"`
	Description  string                      `json:"description"`
	Requirements datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"requirements"`
	// Умолчание is_active=true выставляют создающие пути приложения:
	// колоночный default заставил бы gorm молча терять явный false
	IsActive     bool                        `json:"is_active"`
}

func (Job) TableName() string { return "jobs" }
