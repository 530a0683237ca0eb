package models

// Profile - учетная запись пользователя (Identity).
// Создается при регистрации через шлюз или лениво при первом логине,
// если строка отсутствует (fallback insert с ролью seeker).
type Profile struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `json:"full_name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'seeker'" json:"role"`
	AvatarURL    string   `json:"avatar_url"`
	Title        string   `json:"title"`
	Bio          string   `json:"bio"`
	Location     string   `json:"location"`
	Website      string   `json:"website"`
	Github       string   `json:"github"`
	Linkedin     string   `json:"linkedin"`
	Twitter      string   `json:"twitter"`
}

func (Profile) TableName() string { return "profiles" }
