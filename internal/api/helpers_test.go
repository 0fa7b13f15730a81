package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/internal/api"
	"github.com/persistorai/graphcrawl/internal/fixture"
	"github.com/persistorai/graphcrawl/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	return l
}

func diamondGraph() *fixture.Graph {
	return fixture.FromMap(map[string][]string{
		"A":              {"B", "C"},
		"B":              {"D"},
		"C":              {"D"},
		"Kevin Bacon/Jr": {"A"},
	})
}

// newTestRouter builds the full router over an in-process crawl service.
func newTestRouter(t *testing.T, src *fixture.Graph) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Crawl:       service.NewCrawlService(src, 4, 3, testLogger()),
		Neighbors:   src,
		CORSOrigins: []string{"http://localhost:3000"},
		Version:     "test-v1",
		MaxWorkers:  4,
	})
}

// doRequest performs a GET against the handler and returns the recorder.
func doRequest(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}
