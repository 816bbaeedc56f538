package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/session"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

const testToken = "tok-1"

// fakeCRM is a scriptable stand-in for the CRM backend.
type fakeCRM struct {
	mu sync.Mutex

	meStatus       int
	metricsStatus  int
	prospectStatus int
	prospect       string
	updateStatus   int
	updateBody     string
	totalPages     int
	contacts       string
	failPage       string

	updates []map[string]any
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		meStatus:       http.StatusOK,
		metricsStatus:  http.StatusOK,
		prospectStatus: http.StatusOK,
		prospect:       `{"id":42,"First Name":"Lina","Last Name":"Roux","Email":"lina@plouf.fr","Phone":"0600000000","Statut":"A contacter"}`,
		updateStatus:   http.StatusOK,
		updateBody:     `{}`,
		totalPages:     2,
		contacts:       `[{"id":7,"First Name":"Ana","Last Name":"Martin","Email":"ana@plouf.fr","Statut":"A contacter"}]`,
	}
}

func (f *fakeCRM) lastUpdate() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func (f *fakeCRM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/token" {
		r.ParseForm()
		if r.PostForm.Get("password") == "secret" {
			reply(w, http.StatusOK, `{"access_token":"`+testToken+`","token_type":"bearer"}`)
			return
		}
		reply(w, http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
		return
	}
	if r.URL.Path == "/" {
		reply(w, http.StatusOK, `{"status":"ok"}`)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		reply(w, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
		return
	}

	switch {
	case r.URL.Path == "/users/me":
		if f.meStatus != http.StatusOK {
			reply(w, f.meStatus, `{"detail":"Could not validate credentials"}`)
			return
		}
		reply(w, http.StatusOK, `{"username":"gconstant","email":"g@plouf.fr","full_name":"Gaëlle Constant","role":"admin"}`)
	case r.URL.Path == "/crm/home_metrics":
		if f.metricsStatus != http.StatusOK {
			reply(w, f.metricsStatus, `{"detail":"boom"}`)
			return
		}
		reply(w, http.StatusOK, `{"totalContacts":120,"toContact":30,"relancesDue":4,"upcomingRdv":2}`)
	case r.URL.Path == "/crm/stats":
		reply(w, http.StatusOK, `{"byOrigine":{"Salon":3,"Non défini":1},"byCommercial":{"Paul":2},"byIndustry":{"Retail":5},"byStatus":{"A contacter":3,"Contacté":1},"total":4}`)
	case r.URL.Path == "/crm/contacts":
		if f.failPage != "" && r.URL.Query().Get("page") == f.failPage {
			reply(w, http.StatusInternalServerError, `{"detail":"boom"}`)
			return
		}
		reply(w, http.StatusOK, `{"contacts":`+f.contacts+`,"total":60,"totalPages":`+itoa(f.totalPages)+`}`)
	case r.URL.Path == "/crm/prospect-tinder/next":
		if f.prospectStatus != http.StatusOK {
			reply(w, f.prospectStatus, `{"detail":"Aucun prospect"}`)
			return
		}
		reply(w, http.StatusOK, f.prospect)
	case strings.HasPrefix(r.URL.Path, "/crm/contact/") && r.Method == http.MethodPut:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.updates = append(f.updates, body)
		reply(w, f.updateStatus, f.updateBody)
	default:
		reply(w, http.StatusNotFound, `{"detail":"Not Found"}`)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

type testApp struct {
	handler    http.Handler
	crm        *fakeCRM
	workspaces *usecase.WorkspaceRegistry
}

func newTestApp(t *testing.T, fake *fakeCRM, limiter *RateLimiter) *testApp {
	t.Helper()
	return newTestAppProxied(t, fake, limiter, false)
}

func newTestAppProxied(t *testing.T, fake *fakeCRM, limiter *RateLimiter, trustProxy bool) *testApp {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := crm.NewClient(srv.URL, 2*time.Second)
	views, err := view.New()
	require.NoError(t, err)

	fixed := func() time.Time { return time.Date(2024, 2, 26, 10, 0, 0, 0, time.Local) }
	workspaces := usecase.NewWorkspaceRegistry(client, client, usecase.WithClock(fixed))
	if limiter == nil {
		limiter = NewRateLimiter(100, time.Minute)
	}

	h := NewRouter(RouterConfig{
		Base:           &Base{Views: views, Auth: client, Workspaces: workspaces},
		Dashboard:      usecase.NewDashboard(client),
		Health:         NewHealthHandler(client, "test"),
		LoginLimiter:   limiter,
		AllowedOrigins: []string{"http://localhost:3000"},
		TrustProxy:     trustProxy,
	})
	return &testApp{handler: h, crm: fake, workspaces: workspaces}
}

// do sends a request, signed in unless token is empty.
func (a *testApp) do(method, target, token string, form map[string]string) *httptest.ResponseRecorder {
	return a.serve(newFormRequest(method, target, token, form))
}

func (a *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func newFormRequest(method, target, token string, form map[string]string) *http.Request {
	var body io.Reader
	if form != nil {
		vals := url.Values{}
		for k, v := range form {
			vals.Set(k, v)
		}
		body = strings.NewReader(vals.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
