package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salon/backend/internal/service/entities"
)

type crudService[T, In any] interface {
	Create(ctx context.Context, in In) (T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id uuid.UUID, in In) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// resource serves the five CRUD routes for one entity. Req is the JSON body,
// converted to service input by toInput; render shapes the response.
type resource[T, In, Req any] struct {
	kind    string
	svc     crudService[T, In]
	toInput func(Req) (In, error)
	render  func(T) any
	// list overrides the default List call, e.g. to honour query filters.
	list func(c *gin.Context) ([]T, error)
	log  *slog.Logger
}

func (r *resource[T, In, Req]) register(g gin.IRouter) {
	g.POST("", r.create)
	g.GET("", r.listAll)
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.delete)
}

func (r *resource[T, In, Req]) create(c *gin.Context) {
	log := r.log.With(slog.String("op", "create"))

	in, err := r.bind(c)
	if err != nil {
		fail(c, log, r.kind, err)
		return
	}
	v, err := r.svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, log, r.kind, err)
		return
	}

	log.Info(r.kind+" created", slog.String("id", recordID(&v)))
	c.JSON(http.StatusCreated, r.render(v))
}

func (r *resource[T, In, Req]) get(c *gin.Context) {
	log := r.log.With(slog.String("op", "get"))

	id, err := pathID(c)
	if err != nil {
		fail(c, log, r.kind, err)
		return
	}
	v, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, log, r.kind, err, slog.String("id", id.String()))
		return
	}
	c.JSON(http.StatusOK, r.render(v))
}

func (r *resource[T, In, Req]) listAll(c *gin.Context) {
	log := r.log.With(slog.String("op", "list"))

	var (
		rows []T
		err  error
	)
	if r.list != nil {
		rows, err = r.list(c)
	} else {
		rows, err = r.svc.List(c.Request.Context())
	}
	if err != nil {
		fail(c, log, r.kind, err)
		return
	}

	out := make([]any, 0, len(rows))
	for _, v := range rows {
		out = append(out, r.render(v))
	}
	log.Debug(r.kind+" listed", slog.Int("count", len(out)))
	c.JSON(http.StatusOK, out)
}

func (r *resource[T, In, Req]) update(c *gin.Context) {
	log := r.log.With(slog.String("op", "update"))

	id, err := pathID(c)
	if err != nil {
		fail(c, log, r.kind, err)
		return
	}
	in, err := r.bind(c)
	if err != nil {
		fail(c, log, r.kind, err, slog.String("id", id.String()))
		return
	}
	v, err := r.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, log, r.kind, err, slog.String("id", id.String()))
		return
	}

	log.Info(r.kind+" updated", slog.String("id", id.String()))
	c.JSON(http.StatusOK, r.render(v))
}

func (r *resource[T, In, Req]) delete(c *gin.Context) {
	log := r.log.With(slog.String("op", "delete"))

	id, err := pathID(c)
	if err != nil {
		fail(c, log, r.kind, err)
		return
	}
	if err := r.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, log, r.kind, err, slog.String("id", id.String()))
		return
	}

	log.Info(r.kind+" deleted", slog.String("id", id.String()))
	c.Status(http.StatusNoContent)
}

func (r *resource[T, In, Req]) bind(c *gin.Context) (In, error) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		var zero In
		return zero, entities.Invalid("request body must be valid JSON")
	}
	return r.toInput(req)
}

func recordID(v any) string {
	if rec, ok := v.(interface{ GetID() uuid.UUID }); ok {
		return rec.GetID().String()
	}
	return ""
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, entities.Invalid("id must be a UUID")
	}
	return id, nil
}
