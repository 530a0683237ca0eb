package models

// Application - отклик соискателя на вакансию.
// Уникальность пары (job_id, seeker_id) проверяется перед insert-ом
// на уровне приложения; uniqueIndex в схеме страхует гонку двух вкладок.
type Application struct {
	BaseModel
	JobID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_job_seeker" json:"job_id"`
	SeekerID    string            `gorm:"type:uuid;not null;uniqueIndex:idx_job_seeker" json:"seeker_id"`
	CoverLetter string            `json:"cover_letter"`
	Status      ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
}

func (Application) TableName() string { return "applications" }
