// Package trpc implements a small typed procedure layer over HTTP: a router
// that validates input before dispatch, the response envelope, and the
// value transformer shared with the client.
package trpc

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// ProcedureFunc is a typed procedure body. Input has already been decoded
// and validated when it runs.
type ProcedureFunc[In, Out any] func(c *fiber.Ctx, in In) (Out, error)

// Observer is told about every finished call.
type Observer func(procedure string, code Code, elapsed time.Duration)

type procedure struct {
	kind   Kind
	handle func(c *fiber.Ctx, raw []byte) (any, error)
}

type Router struct {
	procedures  map[string]procedure
	transformer Transformer
	validate    *validator.Validate
	observer    Observer
	log         *slog.Logger
}

type Option func(*Router)

func WithObserver(o Observer) Option {
	return func(r *Router) { r.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.log = l }
}

func WithTransformer(t Transformer) Option {
	return func(r *Router) { r.transformer = t }
}

func NewRouter(opts ...Option) *Router {
	r := &Router{
		procedures:  make(map[string]procedure),
		transformer: SuperJSON{},
		validate:    NewValidator(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logging.OrDefault(r.log)
	return r
}

// Query registers a read procedure served over GET.
func Query[In, Out any](r *Router, name string, fn ProcedureFunc[In, Out]) {
	register(r, name, KindQuery, fn)
}

// Mutation registers a write procedure served over POST.
func Mutation[In, Out any](r *Router, name string, fn ProcedureFunc[In, Out]) {
	register(r, name, KindMutation, fn)
}

func register[In, Out any](r *Router, name string, kind Kind, fn ProcedureFunc[In, Out]) {
	if _, exists := r.procedures[name]; exists {
		panic(fmt.Sprintf("trpc: procedure %q registered twice", name))
	}
	r.procedures[name] = procedure{
		kind: kind,
		handle: func(c *fiber.Ctx, raw []byte) (any, error) {
			var in In
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := r.transformer.Deserialize(raw, &in); err != nil {
					return nil, NewError(CodeBadRequest, "invalid input: %v", err)
				}
			}
			if isStruct(in) {
				if err := r.validate.Struct(in); err != nil {
					return nil, NewError(CodeBadRequest, "%s", ValidationMessage(err))
				}
			}
			return fn(c, in)
		},
	}
}

// Procedures lists registered procedure names, sorted.
func (r *Router) Procedures() []string {
	names := make([]string, 0, len(r.procedures))
	for name := range r.procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mount serves every procedure under <group>/trpc/:procedure.
func (r *Router) Mount(group fiber.Router, handlers ...fiber.Handler) {
	chain := append(handlers, r.serve)
	group.Get("/trpc/:procedure", chain...)
	group.Post("/trpc/:procedure", chain...)
}

func (r *Router) serve(c *fiber.Ctx) error {
	name := c.Params("procedure")
	start := time.Now()
	label := name
	if _, ok := r.procedures[name]; !ok {
		label = "unknown"
	}

	out, err := r.dispatch(c, name)
	if err != nil {
		te := r.toError(name, err)
		r.observe(label, te.Code, start)
		return c.Status(te.HTTPStatus).JSON(ErrorEnvelope(te))
	}

	data, err := r.transformer.Serialize(out)
	if err != nil {
		te := r.toError(name, fmt.Errorf("serialize output: %w", err))
		r.observe(label, te.Code, start)
		return c.Status(te.HTTPStatus).JSON(ErrorEnvelope(te))
	}
	r.observe(label, "OK", start)
	return c.Status(http.StatusOK).JSON(SuccessEnvelope(data))
}

func (r *Router) dispatch(c *fiber.Ctx, name string) (any, error) {
	proc, ok := r.procedures[name]
	if !ok {
		return nil, NewError(CodeNotFound, "no procedure on path %q", name)
	}

	var raw []byte
	switch {
	case proc.kind == KindQuery && c.Method() == fiber.MethodGet:
		raw = []byte(c.Query("input"))
	case proc.kind == KindMutation && c.Method() == fiber.MethodPost:
		raw = c.Body()
	default:
		return nil, NewError(CodeMethodNotSupported, "%s procedure %q does not accept %s", proc.kind, name, c.Method())
	}
	return proc.handle(c, raw)
}

// toError converts any handler error into a wire error. Details of
// non-procedure errors are logged and hidden from the caller.
func (r *Router) toError(name string, err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		out := *te
		out.Path = name
		if out.HTTPStatus == 0 {
			out.HTTPStatus = HTTPStatus(out.Code)
		}
		return &out
	}
	r.log.Error("procedure failed", "procedure", name, "error", err)
	out := NewError(CodeInternal, "Internal server error")
	out.Path = name
	return out
}

func (r *Router) observe(name string, code Code, start time.Time) {
	if r.observer != nil {
		r.observer(name, code, time.Since(start))
	}
}
