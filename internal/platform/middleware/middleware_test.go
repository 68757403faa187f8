package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := ContentTypeJSON(next)

	cases := []struct {
		name          string
		body          string
		contentType   string
		contentLength int64
		want          int
	}{
		{"json body", `{"a":1}`, "application/json", 7, http.StatusOK},
		{"json with charset", `{"a":1}`, "application/json; charset=utf-8", 7, http.StatusOK},
		{"wrong type", `{"a":1}`, "text/plain", 7, http.StatusUnsupportedMediaType},
		{"missing type", `{"a":1}`, "", 7, http.StatusUnsupportedMediaType},
		{"empty body", "", "", 0, http.StatusOK},
		// Chunked transfers report ContentLength -1 but still carry a body.
		{"chunked wrong type", `{"a":1}`, "text/plain", -1, http.StatusUnsupportedMediaType},
		{"chunked json", `{"a":1}`, "application/json", -1, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body *strings.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.ContentLength = tc.contentLength
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusUnsupportedMediaType {
				assert.Contains(t, w.Body.String(), "application/json")
			}
		})
	}
}
