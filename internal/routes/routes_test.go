package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/apps"
	"github.com/ahmetcoskunkizilkaya/journey/internal/apps/example"
	"github.com/ahmetcoskunkizilkaya/journey/internal/apps/resources"
	"github.com/ahmetcoskunkizilkaya/journey/internal/apps/subscription"
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/journey/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/journey/internal/services"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const testSecret = "test-jwt-secret"

func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	repo := services.NewMemorySubscriptionRepository(services.MockSubscriptions(time.Now())...)
	subs := services.NewSubscriptionService(repo, nil)
	webhooks := services.NewWebhookService(subs, nil)

	m := metrics.New()
	router := trpc.NewRouter(trpc.WithObserver(m.ObserveProcedure))
	for _, p := range []apps.Plugin{resources.New(), subscription.New(subs), example.New()} {
		p.RegisterProcedures(router, cfg)
	}

	app := fiber.New()
	Setup(app, cfg, router,
		handlers.NewHealthHandler(repo, router.Procedures()),
		handlers.NewWebhookHandler(webhooks, cfg.WebhookSecret, m, nil),
		m,
	)
	return app
}

type result struct {
	status int
	body   []byte
}

func (r result) get(path string) gjson.Result { return gjson.GetBytes(r.body, path) }

func do(t *testing.T, app *fiber.App, req *http.Request) result {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, body: body}
}

func query(t *testing.T, app *fiber.App, procedure, input string, headers ...string) result {
	t.Helper()
	target := "/api/trpc/" + procedure
	if input != "" {
		target += "?input=" + url.QueryEscape(input)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	setHeaders(req, headers)
	return do(t, app, req)
}

func mutate(t *testing.T, app *fiber.App, procedure, input string, headers ...string) result {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/trpc/"+procedure, strings.NewReader(input))
	req.Header.Set("Content-Type", "application/json")
	setHeaders(req, headers)
	return do(t, app, req)
}

func setHeaders(req *http.Request, kv []string) {
	for i := 0; i+1 < len(kv); i += 2 {
		req.Header.Set(kv[i], kv[i+1])
	}
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestResourcesListSearch(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := query(t, app, "resources.list", `{"json":{"search":"statement"}}`)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	titles := res.get("result.data.json.#.title").Array()
	require.Len(t, titles, 2)
	assert.Equal(t, "Personal Statement Masterclass", titles[0].String())

	all := query(t, app, "resources.list", "")
	assert.Equal(t, int64(6), all.get("result.data.json.#").Int())

	filtered := query(t, app, "resources.list", `{"category":"All","type":"video"}`)
	assert.Equal(t, int64(2), filtered.get("result.data.json.#").Int())
}

func TestResourcesByIDNotFound(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := query(t, app, "resources.byId", `{"json":{"id":"missing"}}`)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "NOT_FOUND", res.get("error.code").String())
	assert.Equal(t, "resources.byId", res.get("error.path").String())

	ok := query(t, app, "resources.byId", `{"json":{"id":"4"}}`)
	assert.Equal(t, "Student Visa Checklist", ok.get("result.data.json.title").String())
}

func TestSubscriptionUpdateMismatchLeavesRecord(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := mutate(t, app, "subscription.update", `{"json":{"userId":"user_123","subscriptionId":"sub_456","status":"canceled"}}`)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "NOT_FOUND", res.get("error.code").String())

	got := query(t, app, "subscription.get", `{"json":{"userId":"user_123"}}`)
	assert.Equal(t, "active", got.get("result.data.json.status").String())
}

func TestSubscriptionUpdateAndCancel(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := mutate(t, app, "subscription.update", `{"json":{"userId":"user_456","subscriptionId":"sub_456","status":"active"}}`)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	assert.Equal(t, "active", res.get("result.data.json.status").String())
	assert.Equal(t, "Date", res.get("result.data.meta.values.updatedAt.0").String())

	res = mutate(t, app, "subscription.cancel", `{"json":{"userId":"user_123","subscriptionId":"sub_123"}}`)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	assert.Equal(t, "canceled", res.get("result.data.json.status").String())
	assert.True(t, res.get("result.data.json.canceledAt").Exists())

	got := query(t, app, "subscription.get", `{"json":{"userId":"user_123"}}`)
	assert.Equal(t, "canceled", got.get("result.data.json.status").String(), "canceled records are retained")

	reactivate := mutate(t, app, "subscription.update", `{"json":{"userId":"user_123","subscriptionId":"sub_123","status":"active"}}`)
	assert.Equal(t, http.StatusConflict, reactivate.status)
	assert.Equal(t, "CONFLICT", reactivate.get("error.code").String())
}

func TestSubscriptionGetUnknownUserIsNull(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := query(t, app, "subscription.get", `{"json":{"userId":"user_999"}}`)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, gjson.Null, res.get("result.data.json").Type)
}

func TestProcedureInputValidation(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := mutate(t, app, "subscription.update", `{"json":{"userId":"user_123","subscriptionId":"sub_123","status":"bogus"}}`)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "BAD_REQUEST", res.get("error.code").String())
	assert.Contains(t, res.get("error.message").String(), "status")

	missing := query(t, app, "subscription.get", "")
	assert.Equal(t, http.StatusBadRequest, missing.status)
}

func TestProcedureRouting(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	unknown := query(t, app, "resources.nope", "")
	assert.Equal(t, http.StatusNotFound, unknown.status)

	wrongMethod := query(t, app, "subscription.cancel", `{"userId":"user_123","subscriptionId":"sub_123"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.status)
	assert.Equal(t, "METHOD_NOT_SUPPORTED", wrongMethod.get("error.code").String())
}

func TestExampleHiMarksDate(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := mutate(t, app, "example.hi", `{"json":{"name":"Ada"}}`)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	assert.Equal(t, "Ada", res.get("result.data.json.hello").String())
	assert.Equal(t, "Date", res.get("result.data.meta.values.date.0").String())
}

func TestSubscriptionOwnershipWithJWT(t *testing.T) {
	app := newTestApp(t, &config.Config{JWTSecret: testSecret})
	input := `{"json":{"userId":"user_123"}}`

	anonymous := query(t, app, "subscription.get", input)
	assert.Equal(t, http.StatusUnauthorized, anonymous.status)
	assert.Equal(t, "UNAUTHORIZED", anonymous.get("error.code").String())

	other := query(t, app, "subscription.get", input, "Authorization", bearer(t, "user_456"))
	assert.Equal(t, http.StatusForbidden, other.status)
	assert.Equal(t, "FORBIDDEN", other.get("error.code").String())

	owner := query(t, app, "subscription.get", input, "Authorization", bearer(t, "user_123"))
	assert.Equal(t, http.StatusOK, owner.status)
	assert.Equal(t, "sub_123", owner.get("result.data.json.id").String())

	forged := query(t, app, "subscription.get", input, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, forged.status)
	assert.Equal(t, "subscription.get", forged.get("error.path").String())

	// resources stay public
	public := query(t, app, "resources.list", "")
	assert.Equal(t, http.StatusOK, public.status)
}

func webhook(t *testing.T, app *fiber.App, body string, headers ...string) result {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setHeaders(req, headers)
	return do(t, app, req)
}

func TestWebhookUnknownEventAcknowledged(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := webhook(t, app, `{"event_id":"evt_1","event_type":"foo.bar","occurred_at":"2026-10-01T12:00:00Z","data":{}}`)
	assert.Equal(t, http.StatusOK, res.status)
	assert.True(t, res.get("success").Bool())
}

func TestWebhookCancelsSubscription(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := webhook(t, app, `{"event_id":"evt_2","event_type":"subscription.canceled","occurred_at":"2026-10-01T12:00:00Z","data":{"user_id":"user_123","subscription_id":"sub_123"}}`)
	require.Equal(t, http.StatusOK, res.status)
	assert.True(t, res.get("success").Bool())

	got := query(t, app, "subscription.get", `{"json":{"userId":"user_123"}}`)
	assert.Equal(t, "canceled", got.get("result.data.json.status").String())
}

func TestWebhookFailedKnownEventStillAcknowledged(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	res := webhook(t, app, `{"event_id":"evt_3","event_type":"subscription.updated","occurred_at":"2026-10-01T12:00:00Z","data":{"user_id":"user_123","subscription_id":"sub_nope","status":"paused"}}`)
	assert.Equal(t, http.StatusOK, res.status)
	assert.True(t, res.get("success").Bool())
}

func TestWebhookRejectsMalformedEnvelope(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	cases := map[string]string{
		"not json":        `{`,
		"missing id":      `{"event_type":"foo.bar","occurred_at":"2026-10-01T12:00:00Z","data":{}}`,
		"bad timestamp":   `{"event_id":"e","event_type":"foo.bar","occurred_at":"yesterday","data":{}}`,
		"data not object": `{"event_id":"e","event_type":"foo.bar","occurred_at":"2026-10-01T12:00:00Z","data":[1]}`,
		"data null":       `{"event_id":"e","event_type":"foo.bar","occurred_at":"2026-10-01T12:00:00Z","data":null}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			res := webhook(t, app, body)
			assert.Equal(t, http.StatusBadRequest, res.status, string(res.body))
			assert.True(t, res.get("error").Bool())
		})
	}
}

func TestWebhookSecret(t *testing.T) {
	app := newTestApp(t, &config.Config{WebhookSecret: "whsec"})
	body := `{"event_id":"evt_4","event_type":"foo.bar","occurred_at":"2026-10-01T12:00:00Z","data":{}}`

	assert.Equal(t, http.StatusUnauthorized, webhook(t, app, body).status)
	assert.Equal(t, http.StatusUnauthorized, webhook(t, app, body, "Authorization", "wrong").status)
	assert.Equal(t, http.StatusOK, webhook(t, app, body, "Authorization", "whsec").status)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	health := do(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, health.status)
	assert.Equal(t, "ok", health.get("storage").String())
	assert.Contains(t, health.get("procedures").String(), "subscription.update")

	query(t, app, "resources.list", "")
	webhook(t, app, `{"event_id":"evt_5","event_type":"foo.bar","occurred_at":"2026-10-01T12:00:00Z","data":{}}`)

	m := do(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, m.status)
	assert.Contains(t, string(m.body), `journey_procedures_calls_total{code="OK",procedure="resources.list"} 1`)
	assert.Contains(t, string(m.body), `journey_webhooks_events_total{event_type="unknown",outcome="ignored"} 1`)
}
