package models

import "gorm.io/datatypes"

// Project - запись в разделе "проекты" портфолио
type Project struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
}

// Experience - запись в разделе "опыт работы"
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Portfolio - портфолио соискателя, синглтон на пользователя.
// Инвариант "не более одной строки на user_id" обеспечивается
// upsert-ом по conflict key user_id плюс uniqueIndex в схеме.
type Portfolio struct {
	BaseModel
	UserID     string                           `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Title      string                           `json:"title"`
	Bio        string                           `json:"bio"`
	Location   string                           `json:"location"`
	Email      string                           `json:"email"`
	Phone      string                           `json:"phone"`
	Website    string                           `json:"website"`
	Github     string                           `json:"github"`
	Linkedin   string                           `json:"linkedin"`
	Skills     datatypes.JSONSlice[string]      `gorm:"type:jsonb" json:"skills"`
	Projects   datatypes.JSONSlice[Project]     `gorm:"type:jsonb" json:"projects"`
	Experience datatypes.JSONSlice[Experience]  `gorm:"type:jsonb" json:"experience"`
	Template   PortfolioTemplate                `gorm:"type:varchar(20);default:'modern'" json:"template"`
}

func (Portfolio) TableName() string { return "portfolios" }
