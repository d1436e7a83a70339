package trpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	Name   string `json:"name" validate:"required,min=2"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=active canceled"`
}

type echoOutput struct {
	Hello string    `json:"hello"`
	At    time.Time `json:"at"`
}

type call struct {
	procedure string
	code      Code
}

func newTestApp(t *testing.T) (*fiber.App, *[]call, *int) {
	t.Helper()
	var calls []call
	invoked := 0

	r := NewRouter(WithObserver(func(p string, code Code, _ time.Duration) {
		calls = append(calls, call{p, code})
	}))
	Query(r, "example.echo", func(_ *fiber.Ctx, in echoInput) (echoOutput, error) {
		invoked++
		return echoOutput{Hello: in.Name, At: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
	})
	Mutation(r, "example.fail", func(_ *fiber.Ctx, in echoInput) (*echoOutput, error) {
		invoked++
		if in.Name == "missing" {
			return nil, NewError(CodeNotFound, "nothing called %s", in.Name)
		}
		return nil, errors.New("db exploded")
	})

	app := fiber.New()
	r.Mount(app.Group("/api"))
	return app, &calls, &invoked
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, Envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func queryRequest(procedure, input string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/trpc/"+procedure+"?input="+url.QueryEscape(input), nil)
}

func TestRouterQuerySuccess(t *testing.T) {
	app, calls, _ := newTestApp(t)

	status, env := doRequest(t, app, queryRequest("example.echo", `{"json":{"name":"Ada"}}`))
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, env.Err())

	var out echoOutput
	require.NoError(t, SuperJSON{}.Deserialize(env.Result.Data, &out))
	assert.Equal(t, "Ada", out.Hello)
	assert.Equal(t, []call{{"example.echo", "OK"}}, *calls)
}

func TestRouterValidationRejectsBeforeHandler(t *testing.T) {
	app, _, invoked := newTestApp(t)

	status, env := doRequest(t, app, queryRequest("example.echo", `{"name":"A","status":"paused"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Err())
	assert.Equal(t, CodeBadRequest, env.Err().Code)
	assert.Contains(t, env.Err().Message, "field name must be at least 2 characters")
	assert.Contains(t, env.Err().Message, "field status must be one of [active canceled]")
	assert.Zero(t, *invoked)

	status, _ = doRequest(t, app, queryRequest("example.echo", ""))
	assert.Equal(t, http.StatusBadRequest, status, "missing input fails required fields")

	status, _ = doRequest(t, app, queryRequest("example.echo", `{"name":`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Zero(t, *invoked)
}

func TestRouterProcedureErrors(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/trpc/example.fail", strings.NewReader(`{"name":"missing"}`))
	req.Header.Set("Content-Type", "application/json")
	status, env := doRequest(t, app, req)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, env.Err().Code)
	assert.Equal(t, "example.fail", env.Err().Path)

	req = httptest.NewRequest(http.MethodPost, "/api/trpc/example.fail", strings.NewReader(`{"name":"other"}`))
	status, env = doRequest(t, app, req)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, env.Err().Code)
	assert.NotContains(t, env.Err().Message, "db exploded")
}

func TestRouterUnknownProcedureAndMethod(t *testing.T) {
	app, calls, _ := newTestApp(t)

	status, env := doRequest(t, app, queryRequest("nope.nothing", `{}`))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, env.Err().Code)

	req := httptest.NewRequest(http.MethodPost, "/api/trpc/example.echo", strings.NewReader(`{"name":"Ada"}`))
	status, env = doRequest(t, app, req)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, CodeMethodNotSupported, env.Err().Code)

	assert.Equal(t, "unknown", (*calls)[0].procedure)
}

func TestRouterProcedures(t *testing.T) {
	r := NewRouter()
	Query(r, "b.list", func(_ *fiber.Ctx, _ struct{}) (int, error) { return 0, nil })
	Mutation(r, "a.save", func(_ *fiber.Ctx, _ struct{}) (int, error) { return 0, nil })
	assert.Equal(t, []string{"a.save", "b.list"}, r.Procedures())
	assert.Panics(t, func() {
		Query(r, "a.save", func(_ *fiber.Ctx, _ struct{}) (int, error) { return 0, nil })
	})
}
