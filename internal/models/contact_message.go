package models

// ContactMessage - сообщение с публичной формы обратной связи.
// Создается анонимно, читается и удаляется только админом.
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null" json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `gorm:"not null" json:"message"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
