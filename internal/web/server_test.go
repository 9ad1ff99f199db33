package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
	"github.com/JonMunkholm/datacatalog/internal/config"
	"github.com/JonMunkholm/datacatalog/internal/core"
	"github.com/JonMunkholm/datacatalog/internal/database"
	"github.com/JonMunkholm/datacatalog/internal/insight"
)

type testEnv struct {
	server   *Server
	insights *insight.MemoryStore
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenCatalog(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, RequestTimeout: 10 * time.Second},
		Catalog:  config.CatalogConfig{BackupDir: t.TempDir()},
		Upload:   config.UploadConfig{MaxFileSize: 1 << 20, MaxImageSize: 1 << 10, MaxConcurrent: 2, MaxWaitTime: time.Second, Timeout: time.Minute, Dir: t.TempDir()},
		Security: config.SecurityConfig{EnableCSP: true},
	}
	insights := insight.NewMemoryStore()
	svc := core.NewService(catalog.NewStore(db), insights, insight.NewImageStore(cfg.Upload.Dir, cfg.Upload.MaxImageSize), core.Options{
		BackupDir:            cfg.Catalog.BackupDir,
		ImportTimeout:        cfg.Upload.Timeout,
		MaxConcurrentImports: cfg.Upload.MaxConcurrent,
		MaxWaitTime:          cfg.Upload.MaxWaitTime,
	})
	s := NewServer(svc, cfg)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return &testEnv{server: s, insights: insights, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	return e.uploadContext(t, context.Background(), path, filename, content)
}

func (e *testEnv) uploadContext(t *testing.T, ctx context.Context, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequestWithContext(ctx, http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const tableBody = `{"system_name":"勘定系","creator":"admin","table_physical_name":"ACCOUNTS","table_logical_name":"口座","table_description":"口座マスタ"}`

func TestTablesAndColumnsAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/tables", tableBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[createdResponse](t, rec)
	assert.Equal(t, "Table created", created.Message)

	rec = env.do(t, http.MethodPost, "/api/columns",
		`{"table_id":`+itoa(created.ID)+`,"column_physical_name":"ACCT_NO","column_logical_name":"口座番号","data_type":"CHAR","is_pk":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/tables/"+itoa(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, rec)
	assert.Equal(t, "ACCOUNTS", detail["table_physical_name"])
	assert.Len(t, detail["columns"], 1)

	rec = env.do(t, http.MethodGet, "/api/columns/table/"+itoa(created.ID), "")
	assert.Len(t, decode[[]catalog.DataColumn](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/tables", "")
	assert.Len(t, decode[[]catalog.DataTable](t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/api/tables/"+itoa(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/tables/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CAT001", decode[ErrorResponse](t, rec).Code)
}

func TestTableDetail_EmptyColumnsRendered(t *testing.T) {
	env := newTestEnv(t)
	created := decode[createdResponse](t, env.do(t, http.MethodPost, "/api/tables", tableBody))

	rec := env.do(t, http.MethodGet, "/api/tables/"+itoa(created.ID), "")
	assert.Contains(t, rec.Body.String(), `"columns":[]`)
}

func TestRequestValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown field", http.MethodPost, "/api/tables", `{"system_name":"x","bogus":1}`, http.StatusBadRequest, "VAL003"},
		{"malformed json", http.MethodPost, "/api/tables", `{`, http.StatusBadRequest, "VAL004"},
		{"bad id", http.MethodGet, "/api/tables/abc", "", http.StatusBadRequest, "VAL006"},
		{"missing insight", http.MethodGet, "/api/insights/99", "", http.StatusNotFound, "CAT004"},
		{"missing insight id", http.MethodPost, "/api/insights", `{"subject":"x"}`, http.StatusBadRequest, "VAL001"},
		{"column for missing table", http.MethodPost, "/api/columns", `{"table_id":42,"column_physical_name":"A","column_logical_name":"a","data_type":"INT"}`, http.StatusNotFound, "CAT001"},
		{"bad role", http.MethodPost, "/api/users", `{"username":"u","name":"n","role":"owner"}`, http.StatusBadRequest, "VAL000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestUsersAPI(t *testing.T) {
	env := newTestEnv(t)

	users := decode[[]catalog.User](t, env.do(t, http.MethodGet, "/api/users", ""))
	require.Len(t, users, 1)
	assert.Equal(t, database.DefaultAdminUsername, users[0].Username)

	rec := env.do(t, http.MethodPost, "/api/users", `{"username":"suzuki","name":"鈴木","role":"viewer"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decode[createdResponse](t, rec).ID

	rec = env.do(t, http.MethodPut, "/api/users/"+itoa(id), `{"name":"鈴木","role":"editor"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/users", `{"username":"suzuki","name":"別人","role":"viewer"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/users/"+itoa(id), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchAPI(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/tables", tableBody)

	rec := env.do(t, http.MethodGet, "/api/search?q=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/search?q="+url.QueryEscape("口座"), "")
	assert.Len(t, decode[[]catalog.DataTable](t, rec), 1)
}

func TestBackupAndTableCSV(t *testing.T) {
	env := newTestEnv(t)
	id := decode[createdResponse](t, env.do(t, http.MethodPost, "/api/tables", tableBody)).ID

	rec := env.do(t, http.MethodPost, "/api/backup", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	path := decode[map[string]string](t, rec)["path"]
	_, err := os.Stat(path)
	assert.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/api/backup/csv/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="ACCOUNTS.csv"`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# テーブル情報\n"))
}

func importLine(insightID, banks string) string {
	fields := make([]string, len(insight.ImportSchema))
	fields[3] = insightID
	fields[12] = banks
	return strings.Join(fields, ",")
}

func TestInsightImportExport(t *testing.T) {
	env := newTestEnv(t)

	csv := "ID,作成番号,件名,インサイトID\n" + importLine("INS-1", `"[""A"",""B""]"`) + "\n" + importLine("", "") + "\n"
	rec := env.upload(t, "/api/insights/import/csv", "insights.csv", []byte(csv))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, float64(insight.ImportSchemaVersion), body["schemaVersion"])
	assert.Equal(t, float64(1), body["imported"])
	assert.Equal(t, float64(1), body["errors"])
	details := body["errorDetails"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, float64(3), details[0].(map[string]any)["row"])

	rec = env.do(t, http.MethodGet, "/api/insights?targetBanks=B&targetBanks=Z", "")
	list := decode[[]insight.Insight](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"A", "B"}, list[0].TargetBanks)

	rec = env.do(t, http.MethodGet, "/api/insights/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=insights.csv", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\uFEFFID,"))
}

func TestInsightImport_Rejections(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "/api/insights/import/csv", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FILE002", decode[ErrorResponse](t, rec).Code)

	rec = env.upload(t, "/api/insights/import/csv", "insights.csv", []byte("header only\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FILE003", decode[ErrorResponse](t, rec).Code)
	assert.Equal(t, 0, env.insights.Len())
}

func TestInsightImport_CancelledReturnsPartialSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	csv := "ID,作成番号,件名,インサイトID\n" + importLine("INS-1", "") + "\n" + importLine("INS-2", "") + "\n"
	rec := env.uploadContext(t, ctx, "/api/insights/import/csv", "insights.csv", []byte(csv))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "IMP002", body["code"])
	assert.NotEmpty(t, body["importId"])
	assert.Equal(t, float64(0), body["imported"])
	assert.Equal(t, float64(0), body["errors"])
	assert.Equal(t, 0, env.insights.Len())
}

func TestInsightCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/insights", `{"insightId":"INS-7","subject":"残高通知","targetBanks":["A"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[insight.Insight](t, rec)
	assert.Equal(t, 1, created.DisplayCount)

	in := created.Input()
	in.Status = "公開"
	payload, err := json.Marshal(in)
	require.NoError(t, err)
	rec = env.do(t, http.MethodPut, "/api/insights/"+itoa(created.ID), string(payload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "公開", decode[insight.Insight](t, rec).Status)

	rec = env.do(t, http.MethodDelete, "/api/insights/"+itoa(created.ID), "")
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/api/insights/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImageUpload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "/api/insights/upload", "teaser.png", []byte("\x89PNG"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decode[map[string]string](t, rec)["url"]
	assert.True(t, strings.HasPrefix(url, "/uploads/"))

	rec = env.do(t, http.MethodGet, url, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "\x89PNG", rec.Body.String())

	rec = env.upload(t, "/api/insights/upload", "script.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FILE004", decode[ErrorResponse](t, rec).Code)
}

func TestImageUpload_RejectsSVG(t *testing.T) {
	env := newTestEnv(t)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.cookie)</script></svg>`)
	rec := env.upload(t, "/api/insights/upload", "x.svg", svg)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FILE004", decode[ErrorResponse](t, rec).Code)

	entries, err := os.ReadDir(env.cfg.Upload.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected image is not written")
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/tables", tableBody)

	rec := env.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ACCOUNTS")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = env.do(t, http.MethodGet, "/?q="+url.QueryEscape("存在しない"), "")
	assert.Contains(t, rec.Body.String(), "テーブルがありません")

	rec = env.do(t, http.MethodGet, "/insights", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Security.RequireAPIKey = true
	env.cfg.Security.APIKeys = []string{"secret"}

	rec := env.do(t, http.MethodGet, "/api/tables", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	assert.True(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
