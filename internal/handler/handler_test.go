package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmsmind/backend/internal/archive"
	"github.com/cmmsmind/backend/internal/jobs"
	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/notification"
	"github.com/cmmsmind/backend/internal/report"
	"github.com/cmmsmind/backend/internal/repository"
	"github.com/cmmsmind/backend/internal/repository/memory"
	"github.com/cmmsmind/backend/internal/repository/seed"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testAPI struct {
	server *httptest.Server
	store  repository.Store
}

func newTestAPI(t *testing.T, opts ...func(*Deps)) *testAPI {
	t.Helper()

	store := memory.New()
	ds, err := seed.Demo()
	require.NoError(t, err)
	require.NoError(t, seed.Load(context.Background(), store, ds))

	clock := func() time.Time { return testNow }
	logger := testLogger()
	deps := Deps{
		Store:          store,
		Publisher:      notification.NewPublisher(store.Notifications(), nil, logger),
		Reports:        report.NewService(store).WithClock(clock),
		Logger:         logger,
		AllowedOrigins: []string{"*"},
		Now:            clock,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return &testAPI{server: srv, store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type listBody[T any] struct {
	Data []T `json:"data"`
}

type errorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details"`
	RequestID string            `json:"request_id"`
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("storage only", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)

		resp := api.do(t, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[healthResponse](t, resp)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Components["storage"].Status)
		assert.NotContains(t, body.Components, "archive")
	})

	t.Run("unhealthy archive", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, func(d *Deps) {
			d.Archive = stubArchive{status: archive.HealthStatus{Healthy: false, Message: "bucket missing"}}
		})

		resp := api.do(t, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decode[healthResponse](t, resp)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "bucket missing", body.Components["archive"].Message)
	})
}

type stubArchive struct {
	status archive.HealthStatus
}

func (s stubArchive) Health(context.Context) archive.HealthStatus { return s.status }

func TestAssetLifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/v1/assets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[listBody[model.Asset]](t, resp).Data, 18)

	resp = api.do(t, http.MethodGet, "/api/v1/assets?category=Vehicles", nil)
	assert.Len(t, decode[listBody[model.Asset]](t, resp).Data, 8)

	code := "TEST-" + gofakeit.LetterN(6)
	resp = api.do(t, http.MethodPost, "/api/v1/assets", map[string]any{
		"code":            code,
		"name":            gofakeit.ProductName(),
		"category":        "Pumps",
		"location":        gofakeit.City(),
		"purchaseDate":    "2022-01-01",
		"purchaseCost":    10000,
		"usefulLifeYears": 5,
		"residualValue":   1000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[model.Asset](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.AssetStatusActive, created.Status)

	resp = api.do(t, http.MethodGet, "/api/v1/assets/code/"+code, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[model.Asset](t, resp).ID)

	resp = api.do(t, http.MethodPut, "/api/v1/assets/"+created.ID, map[string]any{"location": "Hall 9"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hall 9", decode[model.Asset](t, resp).Location)

	resp = api.do(t, http.MethodDelete, "/api/v1/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/v1/assets/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.NotEmpty(t, body.RequestID)
}

func TestAssetValidation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/v1/assets", map[string]any{"purchaseCost": -1})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Details, "code")
	assert.Contains(t, body.Details, "purchaseCost")

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/v1/assets", strings.NewReader("{"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestAssetDepreciation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/v1/assets/AST001/depreciation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Asset      model.Asset `json:"asset"`
		Financials struct {
			PurchaseCost float64 `json:"purchaseCost"`
			BookValue    float64 `json:"bookValue"`
			Schedule     []any   `json:"depreciationSchedule"`
		} `json:"financials"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AST001", body.Asset.ID)
	assert.Equal(t, 45000.0, body.Financials.PurchaseCost)
	assert.Less(t, body.Financials.BookValue, body.Financials.PurchaseCost)
	assert.Len(t, body.Financials.Schedule, body.Asset.UsefulLifeYears+1)
}

func TestWorkOrderNotifications(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	ctx := context.Background()

	resp := api.do(t, http.MethodPost, "/api/v1/work-orders", map[string]any{
		"assetId":    "AST001",
		"title":      "Replace impeller",
		"priority":   "High",
		"assignedTo": "Mike Johnson",
		"dueDate":    "2024-03-20",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	wo := decode[model.WorkOrder](t, resp)
	assert.Equal(t, "2024-03-15", wo.ScheduledDate.String())

	notes, err := api.store.Notifications().List(ctx, model.NotificationFilter{RelatedEntityID: wo.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationWorkOrderAssigned, notes[0].Type)

	resp = api.do(t, http.MethodPatch, "/api/v1/work-orders/"+wo.ID+"/status", map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[model.WorkOrder](t, resp)
	assert.Equal(t, model.WorkOrderCompleted, done.Status)
	assert.NotNil(t, done.CompletedDate)

	notes, err = api.store.Notifications().List(ctx, model.NotificationFilter{
		RelatedEntityID: wo.ID,
		Type:            model.NotificationWorkOrderCompleted,
	})
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	resp = api.do(t, http.MethodPatch, "/api/v1/work-orders/"+wo.ID+"/status", map[string]any{"status": "Done"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestWorkOrderListFilters(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tests := []struct {
		name   string
		query  string
		status int
		want   int
	}{
		{name: "all", query: "", status: http.StatusOK, want: 12},
		{name: "completed", query: "?status=Completed", status: http.StatusOK, want: 4},
		{name: "open", query: "?status=Planned,In%20Progress", status: http.StatusOK, want: 6},
		{name: "unknown status", query: "?status=Finished", status: http.StatusUnprocessableEntity},
		{name: "bad date", query: "?dueFrom=yesterday", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.do(t, http.MethodGet, "/api/v1/work-orders"+tt.query, nil)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusOK {
				assert.Len(t, decode[listBody[model.WorkOrder]](t, resp).Data, tt.want)
			}
		})
	}
}

func TestInventoryMovements(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/v1/inventory/parts/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	low := decode[listBody[model.SparePart]](t, resp).Data
	ids := make([]string, 0, len(low))
	for _, p := range low {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"SP005", "SP006"}, ids)

	resp = api.do(t, http.MethodPost, "/api/v1/inventory/movements", map[string]any{
		"partId":      "SP001",
		"type":        "OUT",
		"quantity":    2,
		"performedBy": gofakeit.Name(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		Movement model.InventoryMovement `json:"movement"`
		Part     model.SparePart         `json:"part"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 10, out.Part.CurrentStock)
	assert.Equal(t, 250.0, out.Movement.TotalCost)

	resp = api.do(t, http.MethodGet, "/api/v1/inventory/movements/"+out.Movement.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/v1/inventory/parts/SP001/adjust", map[string]any{"delta": -50})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[model.SparePart](t, resp).CurrentStock)

	resp = api.do(t, http.MethodPost, "/api/v1/inventory/parts/SP001/adjust", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/v1/inventory/movements", map[string]any{
		"partId": "SP999", "type": "IN", "quantity": 1, "performedBy": "x",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotificationsReadFlow(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/v1/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	unread := decode[listBody[model.Notification]](t, resp).Data
	require.Len(t, unread, 5)

	resp = api.do(t, http.MethodPost, "/api/v1/notifications/"+unread[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[model.Notification](t, resp).IsRead())

	resp = api.do(t, http.MethodPost, "/api/v1/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, decode[map[string]int](t, resp)["count"])

	resp = api.do(t, http.MethodGet, "/api/v1/notifications/unread-count", nil)
	assert.Equal(t, 0, decode[map[string]int](t, resp)["count"])

	resp = api.do(t, http.MethodDelete, "/api/v1/notifications", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/v1/notifications", nil)
	assert.Empty(t, decode[listBody[model.Notification]](t, resp).Data)
}

func TestSettings(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPut, "/api/v1/settings/company", map[string]any{"phone": "+62 21 555 0100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	company := decode[model.CompanyProfile](t, resp)
	assert.Equal(t, "Demo Company Ltd.", company.Name)
	assert.Equal(t, "+62 21 555 0100", company.Phone)

	resp = api.do(t, http.MethodPost, "/api/v1/settings/policies", map[string]any{
		"name": "Quarterly inspection", "defaultIntervalDays": 90, "notifyBeforeDays": 14,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	policy := decode[model.MaintenancePolicy](t, resp)
	assert.True(t, policy.IsActive)

	resp = api.do(t, http.MethodPut, "/api/v1/settings/policies/"+policy.ID, map[string]any{"defaultIntervalDays": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/v1/settings/policies", nil)
	assert.Len(t, decode[listBody[model.MaintenancePolicy]](t, resp).Data, 4)
}

func TestImportAssets(t *testing.T) {
	t.Parallel()

	csvData := strings.Join([]string{
		"code,name,category,location,purchaseCost,purchaseDate",
		"IMP-001,Booster Pump,Pumps,Plant A,12000,2023-05-01",
		"IMP-002,Air Dryer,Compressors,Plant B,abc,2023-05-01",
		`IMP-003,"Dryer, refrigerated",Compressors,Plant B,8000,2023-06-01`,
		"IMP-004,Short Row",
	}, "\n")

	t.Run("validate", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)

		resp := api.do(t, http.MethodPost, "/api/v1/settings/import/assets", map[string]any{
			"csvData": csvData, "action": "validate",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[model.CSVImportResult](t, resp)
		assert.False(t, result.Success)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 2, result.Failed)
		assert.Equal(t, []model.ImportError{
			{Row: 3, Field: "purchaseCost", Message: "Invalid purchase cost"},
			{Row: 5, Field: "all", Message: "Expected at least 6 columns, got 2"},
		}, result.Errors)
		assert.Empty(t, result.Data)

		resp = api.do(t, http.MethodGet, "/api/v1/assets", nil)
		assert.Len(t, decode[listBody[model.Asset]](t, resp).Data, 18)
	})

	t.Run("import", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)

		resp := api.do(t, http.MethodPost, "/api/v1/settings/import/assets", map[string]any{
			"csvData": csvData, "action": "import",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[model.CSVImportResult](t, resp)
		require.Len(t, result.Data, 2)
		dryer := result.Data[1]
		assert.Equal(t, "Dryer, refrigerated", dryer.Name)
		assert.Equal(t, 10, dryer.UsefulLifeYears)
		assert.Equal(t, 800.0, dryer.ResidualValue)
		assert.Equal(t, []string{"imported"}, dryer.Tags)

		resp = api.do(t, http.MethodGet, "/api/v1/assets", nil)
		assert.Len(t, decode[listBody[model.Asset]](t, resp).Data, 20)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)

		for _, body := range []map[string]any{
			{"csvData": "", "action": "import"},
			{"csvData": "code,name,category", "action": "import"},
			{"csvData": "a,b,c,d,1,2024-01-01", "action": "delete"},
		} {
			resp := api.do(t, http.MethodPost, "/api/v1/settings/import/assets", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		}
	})
}

func TestParseAssetCSVWithoutHeader(t *testing.T) {
	t.Parallel()

	assets, result, err := parseAssetCSV("P-1,Pump,Pumps,Plant,100,2024-01-01\nP-2,Pump,Pumps,,100,2024-01-01")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, 1, assets[0].line)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ImportError{Row: 2, Field: "location", Message: "Location is required"}, result.Errors[0])
}

func TestReports(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	t.Run("json", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/v1/reports/work-orders?statuses=Completed", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Data    []model.WorkOrderReportRow `json:"data"`
			Summary model.ReportSummary        `json:"summary"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Data, 4)
		assert.Equal(t, 4, body.Summary.TotalRecords)
		for _, row := range body.Data {
			assert.Equal(t, model.WorkOrderCompleted, row.Status)
		}
	})

	t.Run("csv download", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/v1/reports/inventory?format=csv", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory-2024-03-15.csv")
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, 34, strings.Count(strings.TrimSpace(string(data)), "\n")+1)
	})

	for _, tt := range []struct {
		name   string
		path   string
		status int
	}{
		{"unknown report", "/api/v1/reports/budgets", http.StatusNotFound},
		{"unknown status", "/api/v1/reports/work-orders?statuses=Done", http.StatusUnprocessableEntity},
		{"bad date", "/api/v1/reports/work-orders?dateFrom=03/01/2024", http.StatusUnprocessableEntity},
		{"inverted range", "/api/v1/reports/maintenance-costs?dateFrom=2024-03-01&dateTo=2024-01-01", http.StatusUnprocessableEntity},
		{"unknown format", "/api/v1/reports/fleet?format=pdf", http.StatusBadRequest},
	} {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := decode[model.DashboardMetrics](t, resp)
	assert.Equal(t, 18, m.TotalAssets)
	assert.Equal(t, 8, m.TotalFleetVehicles)
	assert.Equal(t, 2, m.LowStockParts)
	assert.Equal(t, 5, m.UnreadNotifications)
}

func TestFleetTelemetry(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPatch, "/api/v1/fleet/FLT001/location", map[string]any{
		"lat": -6.2, "lng": 106.8, "city": "Jakarta",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[model.FleetVehicle](t, resp)
	require.NotNil(t, v.LastKnownLocation)
	assert.Equal(t, "Jakarta", v.LastKnownLocation.City)

	resp = api.do(t, http.MethodPatch, "/api/v1/fleet/FLT001/location", map[string]any{"lat": 95, "lng": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

type stubJobs struct {
	ran []string
}

func (s *stubJobs) ListJobs() []*jobs.Job {
	return []*jobs.Job{{Name: "low-stock", Schedule: "0 15 * * * *"}}
}

func (s *stubJobs) RunNow(name string) error {
	if name != "low-stock" {
		return jobs.ErrUnknownJob
	}
	s.ran = append(s.ran, name)
	return nil
}

func TestJobs(t *testing.T) {
	t.Parallel()
	runner := &stubJobs{}
	api := newTestAPI(t, func(d *Deps) { d.Jobs = runner })

	resp := api.do(t, http.MethodGet, "/api/v1/jobs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[listBody[jobs.Job]](t, resp).Data, 1)

	resp = api.do(t, http.MethodPost, "/api/v1/jobs/low-stock/run", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []string{"low-stock"}, runner.ran)

	resp = api.do(t, http.MethodPost, "/api/v1/jobs/nope/run", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1)
	api := newTestAPI(t, func(d *Deps) { d.Limiter = rl })

	resp := api.do(t, http.MethodGet, "/api/v1/assets/categories", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/v1/assets/categories", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode[errorBody](t, resp).Code)

	resp = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	now := time.Now()
	rl.now = func() time.Time { return now.Add(time.Hour) }
	assert.Equal(t, 1, rl.Sweep(10*time.Minute))
	assert.Zero(t, rl.Sweep(10*time.Minute))
}
