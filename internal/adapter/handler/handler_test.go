package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/kv"
	"github.com/johnquangdev/meeting-notes/internal/usecase/export"
	"github.com/johnquangdev/meeting-notes/internal/usecase/generation"
	workspaceUsecase "github.com/johnquangdev/meeting-notes/internal/usecase/workspace"
	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
	"github.com/johnquangdev/meeting-notes/pkg/config"
	pkgvalidator "github.com/johnquangdev/meeting-notes/pkg/validator"
)

type envelope struct {
	Code    interface{}       `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Info    string            `json:"info"`
	Details map[string]string `json:"details"`
}

type workspaceBody struct {
	Meetings []struct {
		ID        string `json:"id"`
		DateLabel string `json:"dateLabel"`
	} `json:"meetings"`
	Draft     *meetingBody `json:"draft"`
	Selection *meetingBody `json:"selection"`
	Mode      string       `json:"mode"`
}

type meetingBody struct {
	ID       string `json:"id"`
	IsDraft  bool   `json:"isDraft"`
	Sections []struct {
		Key  string `json:"key"`
		Text string `json:"text"`
	} `json:"sections"`
}

func (m *meetingBody) section(key string) string {
	for _, s := range m.Sections {
		if s.Key == key {
			return s.Text
		}
	}
	return ""
}

// failingDelete makes draft deletion fail so publish is only half done.
type failingDelete struct {
	kv.Store
}

func (f failingDelete) Delete(string) error { return errors.New("injected delete failure") }

type testServer struct {
	e     *echo.Echo
	store *workspaceUsecase.Store
}

func newTestServer(t *testing.T, kvStore kv.Store, withAI bool) *testServer {
	t.Helper()

	repo := repository.NewLocalMeetingRepository(kvStore, nil)
	store := workspaceUsecase.NewStore(repo, nil)
	require.NoError(t, store.Load(context.Background()))

	var aiHandler *AI
	if withAI {
		gateway := generation.NewService(pkgai.NewMockClient(0), 0, nil)
		aiHandler = NewAIHandler(workspaceUsecase.NewAssistant(store, gateway, nil), nil)
	} else {
		aiHandler = NewAIHandler(nil, nil)
	}

	e := echo.New()
	e.Validator = pkgvalidator.New()
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Backend.Type = config.BackendLocal
	NewRouter(cfg,
		NewWorkspaceHandler(store, nil),
		aiHandler,
		NewExportHandler(export.NewService(nil, "", nil), store, nil),
	).Setup(e)

	return &testServer{e: e, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeWorkspace(t *testing.T, rec *httptest.ResponseRecorder) workspaceBody {
	t.Helper()
	var ws workspaceBody
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &ws))
	return ws
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"local"`)
}

func TestGetWorkspace_FreshShowsDemo(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodGet, "/v1/workspace", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ws := decodeWorkspace(t, rec)
	assert.Equal(t, "viewing", ws.Mode)
	require.Len(t, ws.Meetings, 1)
	assert.Equal(t, "June 3, 2025", ws.Meetings[0].DateLabel)
	require.NotNil(t, ws.Selection)
	assert.Equal(t, "1", ws.Selection.ID)
	assert.False(t, ws.Selection.IsDraft)
	assert.Nil(t, ws.Draft)
}

func TestDraftLifecycle(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodPost, "/v1/draft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decodeWorkspace(t, rec)
	assert.Equal(t, "editing", ws.Mode)
	require.NotNil(t, ws.Selection)
	assert.True(t, ws.Selection.IsDraft)

	rec = s.do(t, http.MethodPut, "/v1/draft/sections/lib", `{"text":"Goal 50 / Current: 30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Goal 50 / Current: 30", decodeWorkspace(t, rec).Selection.section("lib"))

	rec = s.do(t, http.MethodPut, "/v1/draft/date", `{"date":"2025-07-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/draft/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ws = decodeWorkspace(t, rec)
	assert.Equal(t, "viewing", ws.Mode)
	require.NotNil(t, ws.Draft)
	assert.Equal(t, "current-draft", ws.Draft.ID)

	rec = s.do(t, http.MethodPost, "/v1/draft/publish", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/v1/workspace", "")
	ws = decodeWorkspace(t, rec)
	require.Len(t, ws.Meetings, 2)
	assert.Equal(t, "July 1, 2025", ws.Meetings[0].DateLabel)
	assert.Nil(t, ws.Draft)
	require.NotNil(t, ws.Selection)
	assert.Equal(t, ws.Meetings[0].ID, ws.Selection.ID)
	assert.Equal(t, "Goal 50 / Current: 30", ws.Selection.section("lib"))
}

func TestCancelEditRestoresSelection(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	s.do(t, http.MethodPost, "/v1/draft", "")
	rec := s.do(t, http.MethodPost, "/v1/draft/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ws := decodeWorkspace(t, rec)
	assert.Equal(t, "viewing", ws.Mode)
	require.NotNil(t, ws.Selection)
	assert.Equal(t, "1", ws.Selection.ID)
}

func TestEditSection_UnknownKeyRejected(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)
	s.do(t, http.MethodPost, "/v1/draft", "")

	rec := s.do(t, http.MethodPut, "/v1/draft/sections/bogus", `{"text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditDate_InvalidDate(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)
	s.do(t, http.MethodPost, "/v1/draft", "")

	rec := s.do(t, http.MethodPut, "/v1/draft/date", `{"date":"next tuesday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "next tuesday", decode(t, rec).Details["date"])
}

func TestSelect(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodPost, "/v1/workspace/select", `{"meetingId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/workspace/select", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/workspace/select", `{"meetingId":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", decodeWorkspace(t, rec).Selection.ID)
}

func TestDeleteMeeting_RequiresConfirmation(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodDelete, "/v1/meetings/1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "WORKSPACE_CONFIRMATION_REQUIRED", codeName(decode(t, rec)))
	assert.Len(t, s.store.Snapshot().Meetings, 1)

	rec = s.do(t, http.MethodDelete, "/v1/meetings/1?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decodeWorkspace(t, rec)
	assert.Empty(t, ws.Meetings)
	assert.Equal(t, "empty", ws.Mode)
}

func TestDeleteMeeting_DraftSlotRefused(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodDelete, "/v1/meetings/current-draft?confirm=true", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "WORKSPACE_DRAFT_NOT_DELETABLE", codeName(decode(t, rec)))
}

func TestDeleteMeeting_RefusedWhileEditingDraft(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)
	s.do(t, http.MethodPost, "/v1/draft", "")

	rec := s.do(t, http.MethodDelete, "/v1/meetings/1?confirm=true", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "WORKSPACE_DRAFT_SELECTED", codeName(decode(t, rec)))
	assert.Len(t, s.store.Snapshot().Meetings, 1)
	assert.Equal(t, workspaceUsecase.ModeEditing, s.store.Mode())
}

func TestPublish_NoDraft(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodPost, "/v1/draft/publish", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, s.store.Snapshot().Meetings, 1)
}

func TestPublish_PartialKeepsDraftAndReportsRecord(t *testing.T) {
	s := newTestServer(t, failingDelete{Store: kv.NewMemoryStore()}, true)

	s.do(t, http.MethodPost, "/v1/draft", "")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/draft/save", "").Code)

	rec := s.do(t, http.MethodPost, "/v1/draft/publish", "")
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var body struct {
		Meeting *meetingBody `json:"meeting"`
		Warning string       `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	require.NotNil(t, body.Meeting)
	assert.NotEmpty(t, body.Meeting.ID)
	assert.NotEmpty(t, body.Warning)

	state := s.store.Snapshot()
	assert.Len(t, state.Meetings, 2)
	assert.NotNil(t, state.Draft)
}

func TestAI_SummaryAndActions(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodPost, "/v1/ai/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var gen struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &gen))
	assert.Equal(t, "summarize", gen.Kind)
	assert.Contains(t, gen.Text, "Meeting Summary")

	rec = s.do(t, http.MethodPost, "/v1/ai/actions", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAI_NothingSelected(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/v1/meetings/1?confirm=true", "").Code)

	rec := s.do(t, http.MethodPost, "/v1/ai/summary", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAI_Prefill(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodPost, "/v1/ai/prefill", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Draft     *meetingBody `json:"draft"`
		Prefilled bool         `json:"prefilled"`
		Warning   string       `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.True(t, body.Prefilled)
	assert.Empty(t, body.Warning)
	require.NotNil(t, body.Draft)
	assert.True(t, body.Draft.IsDraft)
	assert.Equal(t, workspaceUsecase.ModeEditing, s.store.Mode())
}

func TestAI_Unavailable(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), false)

	rec := s.do(t, http.MethodPost, "/v1/ai/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "GENERATION_UNAVAILABLE", codeName(decode(t, rec)))
}

func TestExportText_AttachmentWithoutStorage(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodPost, "/v1/exports", `{"content":"<p>Hello&nbsp;team</p>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "ai_summary.txt")
	assert.Equal(t, "Hello team", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/exports", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportMeeting(t *testing.T) {
	s := newTestServer(t, kv.NewMemoryStore(), true)

	rec := s.do(t, http.MethodGet, "/v1/meetings/1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "meeting-2025-06-03.txt")
	assert.Contains(t, rec.Body.String(), "June 3, 2025")

	rec = s.do(t, http.MethodGet, "/v1/meetings/missing/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// codeName resolves the numeric code in an error body to its symbolic name.
func codeName(env envelope) string {
	n, ok := env.Code.(float64)
	if !ok {
		return ""
	}
	return appErrors.ErrorCode(int(n)).String()
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2025-07-01T09:30:00.123456789+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 7, 30, 0, 123000000, time.UTC), got)

	got, err = parseDate("2025-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDate("July 1st")
	assert.Error(t, err)
}
