package models

type UserRole string
type ApplicationStatus string
type PortfolioTemplate string

const (
	UserRoleSeeker UserRole = "seeker"
	UserRoleHirer  UserRole = "hirer"
	UserRoleAdmin  UserRole = "admin"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	TemplateModern       PortfolioTemplate = "modern"
	TemplateMinimal      PortfolioTemplate = "minimal"
	TemplateCreative     PortfolioTemplate = "creative"
	TemplateProfessional PortfolioTemplate = "professional"
)

// ValidRole проверяет, что роль входит в допустимый набор
func ValidRole(r UserRole) bool {
	switch r {
	case UserRoleSeeker, UserRoleHirer, UserRoleAdmin:
		return true
	}
	return false
}

// ValidTemplate проверяет, что шаблон портфолио известен
func ValidTemplate(t PortfolioTemplate) bool {
	switch t {
	case TemplateModern, TemplateMinimal, TemplateCreative, TemplateProfessional:
		return true
	}
	return false
}

// ValidStatus проверяет, что статус отклика входит в допустимый набор
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// TerminalStatus - статусы, из которых автоматический переход
// pending -> reviewed больше не выполняется
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}
