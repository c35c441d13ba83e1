package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cmbs_reminder/internal/config"
	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/http/middleware"
	"cmbs_reminder/internal/repository"
	"cmbs_reminder/internal/service"
	"cmbs_reminder/internal/store"

	"github.com/gin-gonic/gin"
)

type okNotifier struct{}

func (okNotifier) Send(ctx context.Context, recipient, subject, body string) bool { return true }

func newTestServer(t *testing.T, adminSecret string) (*gin.Engine, *repository.TaskRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	records := store.NewRecords(store.NewMemoryKV())
	tasks := repository.NewTaskRepository(records)
	refs := repository.NewReferenceRepository(records)

	orch := service.NewOrchestrator(
		tasks,
		service.NewSelector(tasks, service.DefaultSelectorConfig()),
		service.NewContextualizer(refs),
		service.NewTemplateGenerator(),
		okNotifier{},
	)

	cfg := &config.Config{
		AdminJWTSecret: adminSecret,
		APIRateLimit:   100,
		APIRateWindow:  time.Minute,
	}

	r := gin.New()
	RegisterRoutes(r, records, orch, nil, nil, cfg, "test")
	return r, tasks
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetTask(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"description": "Collect Q1 2025 Financial Statements",
		"due_date":    "2025-07-15",
		"assigned_to": "alice.smith@cmbs.com",
		"priority":    "Critical",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}

	var created domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "TASK-0001" {
		t.Fatalf("expected TASK-0001, got %s", created.ID)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks/"+created.ID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks/TASK-9999", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing task, got %d", w.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	r, _ := newTestServer(t, "")

	// missing required fields
	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{"description": "x"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// bad date
	w = doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"description": "x", "due_date": "15/07/2025", "assigned_to": "a@cmbs.com",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", w.Code)
	}

	// unknown status
	w = doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"description": "x", "due_date": "2025-07-15", "assigned_to": "a@cmbs.com", "status": "Parked",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestUpdateTaskStatusEndpoint(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"description": "review", "due_date": "2025-07-25", "assigned_to": "bob@cmbs.com",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/TASK-0001/status", map[string]any{
		"status": "In Progress", "notes": "data aggregation started",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var updated domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Fatalf("status not applied: %s", updated.Status)
	}

	w = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/TASK-9999/status", map[string]any{
		"status": "Completed",
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing task, got %d", w.Code)
	}
}

func TestCheckRemindersEndpoint(t *testing.T) {
	r, tasksRepo := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"description": "overdue", "due_date": "2025-07-15", "assigned_to": "alice.smith@cmbs.com",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/check_reminders", map[string]any{
		"current_date": "2025-07-20",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var outcomes []domain.ReminderOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcomes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Status != domain.OutcomeSent {
		t.Fatalf("expected one sent outcome, got %+v", outcomes)
	}

	got, err := tasksRepo.Get(context.Background(), outcomes[0].TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.LastReminderSent == nil {
		t.Fatalf("reminder timestamp must be recorded after the cycle")
	}
}

func TestReferenceEndpoints(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPut, "/api/v1/properties/PROP-GRND", map[string]any{
		"property_type": "Office", "occupancy_rate": 0.85,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("put property: %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/properties/PROP-GRND", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get property: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/loans/LOAN-NONE", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing loan, got %d", w.Code)
	}
}

func TestAdminEndpointsProtected(t *testing.T) {
	// without a secret the routes are closed
	r, _ := newTestServer(t, "")
	if w := doJSON(t, r, http.MethodPost, "/admin/reset", nil, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with no secret configured, got %d", w.Code)
	}

	r, _ = newTestServer(t, "test-secret")
	if w := doJSON(t, r, http.MethodPost, "/admin/reset", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := middleware.GenerateAdminJWT([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	w := doJSON(t, r, http.MethodPost, "/admin/seed", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin token, got %d: %s", w.Code, w.Body)
	}

	// seed loads the demo portfolio
	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list after seed: %d", w.Code)
	}
	var tasks []domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 seeded tasks, got %d", len(tasks))
	}
}
