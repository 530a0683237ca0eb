package roleroute

import (
	"strings"

	"craftfolio_backend/internal/models"
)

// View - логическое имя экрана приложения.
// Публичное портфолио адресуется как "/p/<userID>".
type View string

const (
	ViewLanding         View = "/"
	ViewAuth            View = "/auth"
	ViewPublicPortfolio View = "/p/"

	ViewSeekerDashboard View = "/dashboard/seeker"
	ViewHirerDashboard  View = "/dashboard/hirer"
	ViewAdminPanel      View = "/admin"

	ViewSettings        View = "/settings"
	ViewPortfolioEditor View = "/portfolio/edit"
	ViewJobListings     View = "/jobs"
	ViewMyApplications  View = "/applications"
	ViewPostJob         View = "/jobs/new"
	ViewReview          View = "/applications/review"
)

// Decision - результат маршрутизации: либо рендерим запрошенный
// экран, либо перенаправляем
type Decision struct {
	Allowed    bool
	RedirectTo View
}

// RoleHome возвращает домашний экран роли
func RoleHome(role models.UserRole) View {
	switch role {
	case models.UserRoleAdmin:
		return ViewAdminPanel
	case models.UserRoleHirer:
		return ViewHirerDashboard
	default:
		return ViewSeekerDashboard
	}
}

// IsPublic сообщает, доступен ли экран без аутентификации
func IsPublic(target View) bool {
	if target == ViewLanding || target == ViewAuth {
		return true
	}
	return strings.HasPrefix(string(target), string(ViewPublicPortfolio))
}

// requiredRole возвращает роль, которой ограничен экран,
// и false для экранов, доступных любой аутентифицированной роли
func requiredRole(target View) (models.UserRole, bool) {
	switch target {
	case ViewSeekerDashboard, ViewMyApplications:
		return models.UserRoleSeeker, true
	case ViewHirerDashboard, ViewPostJob, ViewReview:
		return models.UserRoleHirer, true
	case ViewAdminPanel:
		return models.UserRoleAdmin, true
	}
	return "", false
}

// knownView - target соответствует описанному экрану
func knownView(target View) bool {
	if IsPublic(target) {
		return true
	}
	switch target {
	case ViewSeekerDashboard, ViewHirerDashboard, ViewAdminPanel,
		ViewSettings, ViewPortfolioEditor, ViewJobListings,
		ViewMyApplications, ViewPostJob, ViewReview:
		return true
	}
	return false
}

// Decide - чистая функция маршрутизации: по (личность|nil, целевой экран)
// выдает решение. Никаких запросов данных и побочных эффектов.
//
// Правила:
//   - без личности защищенные экраны ведут на /auth, публичные рендерятся;
//   - залогиненный на / или /auth перенаправляется на домашний экран роли;
//   - несовпадение роли с ограниченным экраном ведет на свой дашборд;
//   - неизвестный путь ведет на /.
func Decide(identity *models.Profile, target View) Decision {
	if !knownView(target) {
		return Decision{RedirectTo: ViewLanding}
	}

	if identity == nil {
		if IsPublic(target) {
			return Decision{Allowed: true}
		}
		return Decision{RedirectTo: ViewAuth}
	}

	if target == ViewLanding || target == ViewAuth {
		return Decision{RedirectTo: RoleHome(identity.Role)}
	}

	if required, restricted := requiredRole(target); restricted && identity.Role != required {
		return Decision{RedirectTo: RoleHome(identity.Role)}
	}
	return Decision{Allowed: true}
}
