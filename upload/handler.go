package upload

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/streamscribe/errors"
	"github.com/kbukum/streamscribe/jobs"
	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/observability"
	"github.com/kbukum/streamscribe/server"
	"github.com/kbukum/streamscribe/storage"
	"github.com/kbukum/streamscribe/util"
)

// Path is the route the handler serves.
const Path = "/upload"

// Dispatcher starts a job in the background. It must not block on the
// job itself.
type Dispatcher interface {
	Dispatch(job jobs.Job)
}

// Handler serves uploads.
type Handler struct {
	store      storage.Storage
	dispatcher Dispatcher
	log        *logger.Logger
	maxBody    int64
	newID      func() string
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxBodySize sets the limit reported in 413 responses. The limit
// itself is enforced by the server's body size middleware.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) { h.maxBody = n }
}

// NewHandler creates an upload handler.
func NewHandler(store storage.Storage, dispatcher Dispatcher, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		store:      store,
		dispatcher: dispatcher,
		log:        log.WithComponent("upload"),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the handler on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST(Path, h.Upload)
}

// Upload validates the form, stores the audio as <id>.mp3 and dispatches
// the job. It responds as soon as the job is handed off.
func (h *Handler) Upload(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanHTTPUpload)
	defer span.End()

	form, err := c.MultipartForm()
	if err != nil {
		h.fail(c, span, h.formError(err))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	fh, outputName, err := parseForm(form)
	if err != nil {
		h.fail(c, span, err)
		return
	}

	id := h.newID()
	job := jobs.Job{ID: id, InputPath: id + AudioExt, OutputName: outputName}
	span.SetAttributes(attribute.String(observability.AttrJobID, id))

	if err := h.save(ctx, job.InputPath, fh); err != nil {
		h.log.Error("Failed to store upload", logger.Fields(
			logger.FieldJobID, id,
			logger.FieldError, err.Error(),
		))
		h.fail(c, span, err)
		return
	}

	h.dispatcher.Dispatch(job)
	h.log.Info("Upload accepted", logger.Fields(
		logger.FieldJobID, id,
		"filename", fh.Filename,
		"size_bytes", fh.Size,
		"output", job.OutputFile(),
	))
	server.RespondOK(c, Response{FileID: id, Message: MsgAccepted})
}

// save copies the audio part into storage. A failed copy leaves nothing
// under name.
func (h *Handler) save(ctx context.Context, name string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return apperrors.StorageFailure("open upload", err)
	}
	defer src.Close()

	if err := h.store.Upload(ctx, name, src); err != nil {
		if delErr := h.store.Delete(context.WithoutCancel(ctx), name); delErr != nil {
			h.log.Warn("Failed to remove partial upload", logger.ErrorFields("delete", delErr))
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return h.tooLarge()
		}
		return apperrors.StorageFailure("save upload", err)
	}
	return nil
}

func (h *Handler) formError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return h.tooLarge()
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return apperrors.Validation(MsgNoFile)
	default:
		return apperrors.Validation(MsgMalformed).WithCause(err)
	}
}

func (h *Handler) tooLarge() error {
	limit := "the configured limit"
	if h.maxBody > 0 {
		limit = util.FormatSize(h.maxBody)
	}
	return apperrors.PayloadTooLarge(limit)
}

func (h *Handler) fail(c *gin.Context, span trace.Span, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPStatus >= http.StatusInternalServerError {
		observability.SetSpanError(span, err)
	}
	server.RespondWithError(c, err)
}
