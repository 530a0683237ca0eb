package handlers

import "craftfolio_backend/internal/models"

// Запросы HTTP-слоя. Имена полей в ошибках валидации
// берутся из json-тегов.

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=120"`
	Role     string `json:"role" validate:"is-user-role"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SavePortfolioRequest struct {
	Title      string              `json:"title" validate:"max=120"`
	Bio        string              `json:"bio"`
	Location   string              `json:"location" validate:"max=120"`
	Email      string              `json:"email" validate:"omitempty,email"`
	Phone      string              `json:"phone" validate:"max=40"`
	Website    string              `json:"website" validate:"omitempty,url"`
	Github     string              `json:"github" validate:"max=200"`
	Linkedin   string              `json:"linkedin" validate:"max=200"`
	Skills     []string            `json:"skills"`
	Projects   []models.Project    `json:"projects"`
	Experience []models.Experience `json:"experience"`
	Template   string              `json:"template" validate:"is-template"`
}

type PostJobRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	CompanyName  string   `json:"company_name" validate:"max=200"`
	Location     string   `json:"location" validate:"max=120"`
	JobType      string   `json:"job_type" validate:"max=40"`
	SalaryRange  string   `json:"salary_range" validate:"max=80"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	HirerID      string   `json:"hirer_id"` // учитывается только для админа
}

type UpdateJobRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=200"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
	JobType     *string `json:"job_type" validate:"omitempty,max=40"`
	SalaryRange *string `json:"salary_range" validate:"omitempty,max=80"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,max=120"`
	Title     *string `json:"title" validate:"omitempty,max=120"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Location  *string `json:"location" validate:"omitempty,max=120"`
	Website   *string `json:"website" validate:"omitempty,url"`
	Github    *string `json:"github" validate:"omitempty,max=200"`
	Linkedin  *string `json:"linkedin" validate:"omitempty,max=200"`
	Twitter   *string `json:"twitter" validate:"omitempty,max=200"`
}

type ApplyRequest struct {
	JobID       string `json:"job_id" validate:"required"`
	CoverLetter string `json:"cover_letter"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,is-app-status"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"required"`
}
