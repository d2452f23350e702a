package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foc-inventory-api/internal/actions"
	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/metrics"
	"foc-inventory-api/internal/models"
	"foc-inventory-api/internal/ratelimit"
	"foc-inventory-api/internal/sheets"
	"foc-inventory-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testSecret = "integration-secret-0123456789abcdef"

var masterRows = [][]string{
	{"IMEI", "Unit Name", "RETURN / UNRETURN", "Planned Return Date", "STATUS LOCATION", "ON HOLDER", "Campaign Name", "PIC SEIN", "PIC GOAT"},
	{"111", "Galaxy S24", "RETURN", "ASAP", "LOANED", "Ayu", "Launch", "Sari", "Budi"},
	{"222", "Galaxy S24", "", "", "AVAILABLE", "", "", "", ""},
	{"333", "Galaxy Tab", "UNRETURN", "2025-01-10", "LOANED / ON KOL", "Rina", "Launch", "Sari", "Budi"},
}

type testEnv struct {
	store  *testutil.MemoryStore
	server *Server
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: testutil.NewMemoryStore(),
		now:   time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	layout := sheets.DefaultLayout()
	env.store.SetRange(layout.Ranges.Master, masterRows)
	env.store.SetRange(layout.Ranges.RequestLog, [][]string{{"Timestamp", "Unit Name", "IMEI", "KOL Name"}})

	loc := time.FixedZone("WIB", 7*60*60)
	cache := inventory.NewCache(inventory.NewReader(env.store, layout).Snapshot, time.Minute, inventory.WithClock(clock))
	sessions := auth.NewSessionManager(testSecret, time.Hour, auth.WithSessionClock(clock))
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.DefaultWindow, ratelimit.DefaultMaxAttempts, ratelimit.WithClock(clock))
	m := metrics.New()

	env.server = NewServer(Deps{
		Cache:    cache,
		Sessions: sessions,
		Gate:     auth.NewGate(limiter, sessions, []string{"2468"}, nil, m),
		Actions: actions.NewService(actions.Config{
			Store:       env.store,
			Cache:       cache,
			Layout:      layout,
			Location:    loc,
			EmailDomain: "wppmedia.com",
			Now:         clock,
			Observer:    m,
		}),
		Layout:   layout,
		Location: loc,
		Metrics:  m,
		Now:      clock,
	})
	return env
}

func (e *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.server.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := e.do("POST", "/auth/pin", `{"pin":"2468"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/inventory/", "/inventory/summary", "/inventory/activity", "/inventory/models",
		"/inventory/holders", "/inventory/campaigns", "/inventory/returns", "/inventory/export.xlsx",
	} {
		t.Run(path, func(t *testing.T) {
			w := env.do("GET", path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
	assert.Zero(t, env.store.Reads(), "no read without a session")
}

func TestPinFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/auth/session", "", nil)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = env.do("POST", "/auth/pin", `{"pin":"0000"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid PIN. 4 attempt(s) remaining.")

	cookie := env.login(t)
	assert.True(t, cookie.HttpOnly)

	w = env.do("GET", "/auth/session", "", cookie)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())

	w = env.do("POST", "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPinLockout(t *testing.T) {
	env := newTestEnv(t)

	var w *httptest.ResponseRecorder
	for i := 0; i < ratelimit.DefaultMaxAttempts; i++ {
		w = env.do("POST", "/auth/pin", `{"pin":"0000"}`, nil)
	}
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = env.do("POST", "/auth/pin", `{"pin":"2468"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "correct PIN is still locked out")
	assert.Contains(t, w.Body.String(), "Too many failed attempts")

	env.now = env.now.Add(ratelimit.DefaultWindow + time.Second)
	env.login(t)
}

func TestInventoryViews(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	t.Run("Summary", func(t *testing.T) {
		w := env.do("GET", "/inventory/summary", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var got models.Summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, models.Summary{TotalStock: 3, Available: 1, OnKOL: 2, Gifted: 1, PendingReturns: 2}, got)
	})

	t.Run("List with filter and paging", func(t *testing.T) {
		w := env.do("GET", "/inventory/?location=LOANED&sort=-imei&limit=1", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

		var page inventoryPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, "333", page.Items[0].IMEI)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("Models", func(t *testing.T) {
		w := env.do("GET", "/inventory/models", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var got []models.ModelGroup
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Galaxy S24", got[0].Name)
		assert.Equal(t, 2, got[0].Total)
	})

	t.Run("Returns", func(t *testing.T) {
		w := env.do("GET", "/inventory/returns", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var got []models.ReturnGroup
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.True(t, got[0].ASAP)
		assert.Equal(t, "333", got[1].IMEI)
		assert.True(t, got[1].Overdue)
	})

	t.Run("Export", func(t *testing.T) {
		w := env.do("GET", "/inventory/export.xlsx", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	})

	assert.Equal(t, 1, env.store.Reads(), "views share the cached snapshot")
}

func TestInventoryLoadErrors(t *testing.T) {
	t.Run("No data", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.login(t)
		env.store.SetRange(sheets.DefaultLayout().Ranges.Master, [][]string{masterRows[0]})

		w := env.do("GET", "/inventory/summary", "", cookie)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "NO_INVENTORY_DATA")
	})

	t.Run("Store failure", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.login(t)
		env.store.ReadErr = errors.New("quota exceeded for sheet 1abc")

		w := env.do("GET", "/inventory/models", "", cookie)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "1abc")
	})
}

func TestActions(t *testing.T) {
	const body = `{"username":"dina.putri","requestor":"Brand Team","campaignName":"Launch",
		"unitName":"Galaxy S24","kolName":"Ayu","kolAddress":"Jl. Mawar 1","kolPhoneNumber":"0811",
		"deliveryDate":"2025-03-10","typeOfDelivery":"Courier","typeOfFoc":"Loan"}`

	t.Run("Anonymous", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do("POST", "/actions/request", body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, env.store.Appends())
	})

	t.Run("Request appends and invalidates", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.login(t)

		env.do("GET", "/inventory/summary", "", cookie)
		reads := env.store.Reads()

		w := env.do("POST", "/actions/request", body, cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		require.Len(t, env.store.Appends(), 1)
		assert.Equal(t, "Step 3 FOC Request", env.store.Appends()[0].Range)

		env.do("GET", "/inventory/summary", "", cookie)
		assert.Equal(t, reads+1, env.store.Reads())
	})

	t.Run("Validation", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.login(t)
		w := env.do("POST", "/actions/return", `{"username":"dina.putri"}`, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
	})

	t.Run("Malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.login(t)
		w := env.do("POST", "/actions/request", `{`, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do("GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pin_verifications_total{outcome="ok"} 1`)
}
