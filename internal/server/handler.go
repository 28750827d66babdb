// internal/server/handler.go
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gravity-webhook/internal/common/config"
	"gravity-webhook/internal/common/errors"
	"gravity-webhook/internal/common/logger"
	"gravity-webhook/internal/common/metrics"
	"gravity-webhook/internal/forms"
	"gravity-webhook/internal/graph"
)

// Resolver resolves the configured site URL and list name into Graph IDs.
type Resolver interface {
	Resolve(ctx context.Context, siteURL, listName string) (*graph.ListHandle, error)
}

// Writer persists a contact record under a resolved handle.
type Writer interface {
	Write(ctx context.Context, handle *graph.ListHandle, rec *forms.ContactRecord) (string, error)
}

// WebhookHandler serves the webhook endpoints for one form variant.
// GET answers a liveness probe; POST runs the full submission pipeline.
type WebhookHandler struct {
	extractor *forms.Extractor
	resolver  Resolver
	writer    Writer
	siteURL   string
	listName  string
	version   string
	logger    logger.Logger
}

// NewWebhookHandler wires a handler for the given form schema.
func NewWebhookHandler(schema *forms.FieldSchema, resolver Resolver, writer Writer, cfg *config.Config, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		extractor: forms.NewExtractor(schema, log),
		resolver:  resolver,
		writer:    writer,
		siteURL:   cfg.SharePoint.SiteURL,
		listName:  cfg.SharePoint.ListName,
		version:   cfg.App.Version,
		logger:    log,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleHealth(w, r)
	case http.MethodPost:
		h.handleSubmission(w, r)
	default:
		metrics.WebhookRequests.WithLabelValues(r.Method, "405").Inc()
		writeJSON(w, http.StatusMethodNotAllowed, webhookResponse{
			Success: false,
			Error:   "Method not allowed",
		})
	}
}

func (h *WebhookHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics.WebhookRequests.WithLabelValues(http.MethodGet, "200").Inc()
	writeJSON(w, http.StatusOK, healthResponse{
		Message:   "Gravity Forms webhook endpoint is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}

func (h *WebhookHandler) handleSubmission(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.New().String()
	variant := h.extractor.Schema().Variant

	log := h.logger.WithFields(map[string]interface{}{
		"requestId": requestID,
		"form":      variant,
	})
	w.Header().Set("X-Request-Id", requestID)

	rec, stdErr := h.process(r.Context(), r, log)

	status := http.StatusOK
	if stdErr != nil {
		status = errors.HTTPStatus(stdErr.Code)
		metrics.WebhookRequests.WithLabelValues(http.MethodPost, fmt.Sprintf("%d", status)).Inc()
		metrics.SubmissionsFailed.WithLabelValues(variant, string(stdErr.Code)).Inc()
		metrics.SubmissionDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())

		log.WithError(stdErr).Error("Webhook submission failed", map[string]interface{}{
			"category": errors.GetErrorCategory(stdErr.Code),
		})
		writeJSON(w, status, webhookResponse{
			Success: false,
			Error:   stdErr.Message,
			Details: stdErr.Details,
		})
		return
	}

	metrics.WebhookRequests.WithLabelValues(http.MethodPost, "200").Inc()
	metrics.SubmissionsAccepted.WithLabelValues(variant, string(rec.record.RegistrationType)).Inc()
	metrics.SubmissionDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())

	log.Info("Webhook submission accepted", map[string]interface{}{
		"itemId":           rec.itemID,
		"registrationType": string(rec.record.RegistrationType),
		"durationMs":       time.Since(start).Milliseconds(),
	})
	writeJSON(w, http.StatusOK, webhookResponse{
		Success:          true,
		Message:          "Contact added successfully",
		ItemID:           rec.itemID,
		Contact:          rec.record.ContactName,
		RegistrationType: string(rec.record.RegistrationType),
	})
}

type acceptedSubmission struct {
	record *forms.ContactRecord
	itemID string
}

// process runs the pipeline: read, decode, extract, resolve, write. The first
// failing stage aborts; nothing is written on any error.
func (h *WebhookHandler) process(ctx context.Context, r *http.Request, log logger.Logger) (*acceptedSubmission, *errors.StandardError) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(body) == 0 {
		return nil, errors.NewEmptyBodyError()
	}

	log.Debug("Webhook body received", map[string]interface{}{
		"contentType": r.Header.Get("Content-Type"),
		"bodyLength":  len(body),
	})

	fields, err := forms.Decode(body, r.Header.Get("Content-Type"))
	if err != nil {
		return nil, errors.AsStandardError(err)
	}

	rec, err := h.extractor.Extract(fields)
	if err != nil {
		return nil, errors.AsStandardError(err)
	}

	handle, err := h.resolver.Resolve(ctx, h.siteURL, h.listName)
	if err != nil {
		return nil, errors.AsStandardError(err)
	}

	itemID, err := h.writer.Write(ctx, handle, rec)
	if err != nil {
		return nil, errors.AsStandardError(err)
	}

	return &acceptedSubmission{record: rec, itemID: itemID}, nil
}
