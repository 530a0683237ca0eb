package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"craftfolio_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJob(t *testing.T, ts *helpers.TestServer, hirerToken, title string) string {
	res, body := ts.SendRequest(t, "POST", "/api/v1/jobs", hirerToken, map[string]interface{}{
		"title":        title,
		"company_name": "Acme",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+body)

	var created struct {
		Job struct {
			ID string `json:"id"`
		} `json:"job"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	return created.Job.ID
}

func savePortfolio(t *testing.T, ts *helpers.TestServer, token string) {
	res, body := ts.SendRequest(t, "PUT", "/api/v1/portfolio", token, map[string]interface{}{
		"title":  "Backend Engineer",
		"skills": []string{"Go", "SQL"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)
}

// TestApplyFlow - сквозной путь отклика: от блокировки без портфолио
// до решения нанимателя
func TestApplyFlow(t *testing.T) {
	ts := GetTestServer(t)
	hirerToken, _ := helpers.CreateAndSignInHirer(t, ts)
	seekerToken, _ := helpers.CreateAndSignInSeeker(t, ts)
	jobID := postJob(t, ts, hirerToken, "Go Developer")

	// Без портфолио отклик блокируется
	res, body := ts.SendRequest(t, "POST", "/api/v1/applications", seekerToken, map[string]interface{}{
		"job_id": jobID,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "portfolio")

	savePortfolio(t, ts, seekerToken)

	res, _ = ts.SendRequest(t, "POST", "/api/v1/applications", seekerToken, map[string]interface{}{
		"job_id":       jobID,
		"cover_letter": "Здравствуйте!",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	// Повторный отклик отклоняется
	res, body = ts.SendRequest(t, "POST", "/api/v1/applications", seekerToken, map[string]interface{}{
		"job_id": jobID,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "already applied")

	// Трекер соискателя показывает pending с названием вакансии
	res, body = ts.SendRequest(t, "GET", "/api/v1/applications", seekerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"status":"pending"`)
	assert.Contains(t, body, "Go Developer")

	var tracker struct {
		Applications []struct {
			ID string `json:"id"`
		} `json:"applications"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &tracker))
	require.Len(t, tracker.Applications, 1)
	appID := tracker.Applications[0].ID

	// Открытие на разбор переводит pending -> reviewed
	res, body = ts.SendRequest(t, "GET", "/api/v1/applications/"+appID+"/review", hirerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)
	assert.Contains(t, body, `"status":"reviewed"`)
	assert.Contains(t, body, "Backend Engineer", "портфолио соискателя в карточке разбора")

	// Решение нанимателя
	res, _ = ts.SendRequest(t, "PATCH", "/api/v1/applications/"+appID+"/status", hirerToken, map[string]interface{}{
		"status": "accepted",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = ts.SendRequest(t, "GET", "/api/v1/applications", seekerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"status":"accepted"`)
}

// TestApplicationAccess - разбор закрыт для не-владельца, отзыв - для чужих
func TestApplicationAccess(t *testing.T) {
	ts := GetTestServer(t)
	hirerToken, _ := helpers.CreateAndSignInHirer(t, ts)
	otherHirerToken, _ := helpers.CreateAndSignInHirer(t, ts)
	seekerToken, _ := helpers.CreateAndSignInSeeker(t, ts)
	jobID := postJob(t, ts, hirerToken, "Go Developer")
	savePortfolio(t, ts, seekerToken)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/applications", seekerToken, map[string]interface{}{
		"job_id": jobID,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := ts.SendRequest(t, "GET", "/api/v1/applications", seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tracker struct {
		Applications []struct {
			ID string `json:"id"`
		} `json:"applications"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &tracker))
	appID := tracker.Applications[0].ID

	// Чужой наниматель не разбирает
	res, _ = ts.SendRequest(t, "GET", "/api/v1/applications/"+appID+"/review", otherHirerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Соискатель ручки разбора не видит
	res, _ = ts.SendRequest(t, "GET", "/api/v1/applications/"+appID+"/review", seekerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Нетерминальный статус отклоняется валидацией
	res, _ = ts.SendRequest(t, "PATCH", "/api/v1/applications/"+appID+"/status", hirerToken, map[string]interface{}{
		"status": "pending",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Отзыв отклика
	res, _ = ts.SendRequest(t, "DELETE", "/api/v1/applications/"+appID, seekerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = ts.SendRequest(t, "GET", "/api/v1/applications", seekerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, body, appID)
}
