package roleroute

import (
	"testing"

	"craftfolio_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func profileWithRole(role models.UserRole) *models.Profile {
	p := &models.Profile{Role: role}
	p.ID = "user-1"
	return p
}

func TestDecideAnonymous(t *testing.T) {
	tests := []struct {
		name     string
		target   View
		allowed  bool
		redirect View
	}{
		{"лендинг публичен", ViewLanding, true, ""},
		{"страница входа публична", ViewAuth, true, ""},
		{"публичное портфолио доступно", View("/p/abc-123"), true, ""},
		{"дашборд соискателя закрыт", ViewSeekerDashboard, false, ViewAuth},
		{"дашборд нанимателя закрыт", ViewHirerDashboard, false, ViewAuth},
		{"админка закрыта", ViewAdminPanel, false, ViewAuth},
		{"настройки закрыты", ViewSettings, false, ViewAuth},
		{"редактор портфолио закрыт", ViewPortfolioEditor, false, ViewAuth},
		{"лента вакансий закрыта", ViewJobListings, false, ViewAuth},
		{"неизвестный путь ведет на лендинг", View("/nope"), false, ViewLanding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(nil, tt.target)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.redirect, d.RedirectTo)
		})
	}
}

// Несовпадение роли с ограниченным экраном всегда ведет на свой
// домашний экран, никогда на запрошенный
func TestDecideRoleMismatch(t *testing.T) {
	restricted := map[View]models.UserRole{
		ViewSeekerDashboard: models.UserRoleSeeker,
		ViewMyApplications:  models.UserRoleSeeker,
		ViewHirerDashboard:  models.UserRoleHirer,
		ViewPostJob:         models.UserRoleHirer,
		ViewReview:          models.UserRoleHirer,
		ViewAdminPanel:      models.UserRoleAdmin,
	}
	roles := []models.UserRole{models.UserRoleSeeker, models.UserRoleHirer, models.UserRoleAdmin}

	for target, required := range restricted {
		for _, role := range roles {
			d := Decide(profileWithRole(role), target)
			if role == required {
				assert.True(t, d.Allowed, "роль %s должна попадать на %s", role, target)
				continue
			}
			assert.False(t, d.Allowed, "роль %s не должна попадать на %s", role, target)
			assert.Equal(t, RoleHome(role), d.RedirectTo,
				"редирект для %s с %s ведет на домашний экран роли", role, target)
			assert.NotEqual(t, target, d.RedirectTo, "редирект не ведет на запрошенный экран")
		}
	}
}

// Залогиненный на лендинге или /auth уводится на домашний экран роли
func TestDecideAuthenticatedOnPublicEntry(t *testing.T) {
	cases := []struct {
		role models.UserRole
		home View
	}{
		{models.UserRoleSeeker, ViewSeekerDashboard},
		{models.UserRoleHirer, ViewHirerDashboard},
		{models.UserRoleAdmin, ViewAdminPanel},
	}

	for _, tc := range cases {
		for _, entry := range []View{ViewLanding, ViewAuth} {
			d := Decide(profileWithRole(tc.role), entry)
			assert.False(t, d.Allowed)
			assert.Equal(t, tc.home, d.RedirectTo)
		}
	}
}

// Общие экраны доступны любой аутентифицированной роли
func TestDecideSharedViews(t *testing.T) {
	for _, role := range []models.UserRole{models.UserRoleSeeker, models.UserRoleHirer, models.UserRoleAdmin} {
		for _, target := range []View{ViewSettings, ViewPortfolioEditor, ViewJobListings, View("/p/whoever")} {
			d := Decide(profileWithRole(role), target)
			assert.True(t, d.Allowed, "роль %s должна видеть %s", role, target)
		}
	}
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic(ViewLanding))
	assert.True(t, IsPublic(ViewAuth))
	assert.True(t, IsPublic(View("/p/user-42")))
	assert.False(t, IsPublic(ViewSeekerDashboard))
	assert.False(t, IsPublic(ViewSettings))
}
