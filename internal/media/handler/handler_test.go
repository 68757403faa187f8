package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityhandler "ireporter/internal/identity/handler"
	identityservice "ireporter/internal/identity/service"
	"ireporter/internal/identity/store/user"
	"ireporter/internal/media/service"
	mediastore "ireporter/internal/media/store/media"
	"ireporter/internal/media/uploader"
	"ireporter/internal/notify/outbox"
	recordhandler "ireporter/internal/record/handler"
	recordservice "ireporter/internal/record/service"
	recordstore "ireporter/internal/record/store/record"
	"ireporter/internal/token"
	"ireporter/internal/token/revocation"
)

type testEnv struct {
	router http.Handler
}

// newTestEnv wires the identity, record and media stacks onto one router so
// uploads travel the same auth path production traffic takes.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := user.NewMemoryStore()
	records := recordstore.NewMemoryStore()
	events := outbox.NewMemoryStore()
	tokens := token.NewService("test-key", 15*time.Minute, 24*time.Hour)
	revocations := revocation.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	identitySvc := identityservice.New(users, events, tokens,
		identityservice.AdminPolicy{
			EmailDomain: "organization.com",
			WorkerIDs:   []string{"worker_id_1", "worker_id_2", "worker_id_3"},
		},
		identityservice.WithLogger(logger),
		identityservice.WithRevocationList(revocations),
	)
	mediaSvc := service.New(mediastore.NewMemoryStore(), records, uploader.NewMemory(),
		service.WithLogger(logger),
	)
	recordSvc := recordservice.New(records, users, events,
		recordservice.WithLogger(logger),
		recordservice.WithAttachments(mediaSvc),
	)

	r := chi.NewRouter()
	identityhandler.New(identitySvc, logger, nil, tokens, revocations).Register(r)
	recordhandler.New(recordSvc, identitySvc, logger, nil, tokens, revocations).Register(r)
	New(mediaSvc, identitySvc, logger, nil, tokens, revocations).Register(r)
	return &testEnv{router: r}
}

func (e *testEnv) doJSON(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "hunter2hunter2"}
	w := e.doJSON(t, http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.doJSON(t, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["access_token"].(string)
}

func (e *testEnv) createRecord(t *testing.T, bearer string) string {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/records", bearer, map[string]string{
		"type":  "red-flag",
		"title": "Bribery at permit office",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	return rec["public_id"].(string)
}

func (e *testEnv) doUpload(t *testing.T, path, bearer, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.signup(t, "jane@example.com")
	recID := env.createRecord(t, citizen)

	w := env.doUpload(t, "/records/"+recID+"/images", citizen, "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.NotEmpty(t, m["public_id"])
	assert.NotEmpty(t, m["url"])
	assert.Equal(t, recID, m["record_id"])

	w = env.doJSON(t, http.MethodGet, "/records/"+recID+"/images", citizen, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestUploadRequiresFilePart(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.signup(t, "jane@example.com")
	recID := env.createRecord(t, citizen)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/records/"+recID+"/images", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+citizen)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestUploadRejectsOversizedBodyOnTheWire(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.signup(t, "jane@example.com")
	recID := env.createRecord(t, citizen)

	// Past the request cap, so the multipart parser must fail before the
	// service ever sees the file.
	oversized := bytes.Repeat([]byte("x"), service.MaxUploadBytes+2<<20)
	w := env.doUpload(t, "/records/"+recID+"/images", citizen, "image/png", oversized)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "50MB")
}
