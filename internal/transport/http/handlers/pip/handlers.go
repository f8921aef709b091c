package piphandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"talent/internal/domain/audit"
	"talent/internal/domain/auth"
	"talent/internal/domain/pip"
	"talent/internal/domain/review"
	"talent/internal/requestctx"
	"talent/internal/transport/http/api"
	"talent/internal/transport/http/middleware"
	"talent/internal/transport/http/shared"
)

const maxBatchAssessments = 200

type Handler struct {
	Service *pip.Service
	Perms   middleware.PermissionStore
	Audit   audit.Log
	Idem    middleware.Idempotency
}

func NewHandler(service *pip.Service, perms middleware.PermissionStore, auditLog audit.Log, idem middleware.Idempotency) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditLog, Idem: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pips", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPIPWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPIPWrite, h.Perms)).Get("/active", h.handleListActive)
		r.With(middleware.RequirePermission(auth.PermPIPWrite, h.Perms)).Post("/assessments", h.handleAssessMany)
		r.With(middleware.RequirePermission(auth.PermPIPRead, h.Perms)).Get("/{pipID}/assessment", h.handleAssess)
		r.With(middleware.RequirePermission(auth.PermPIPWrite, h.Perms)).Post("/{pipID}/check-ins", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermPIPWrite, h.Perms)).Post("/{pipID}/milestone-reviews", h.handleMilestoneReview)
		r.With(middleware.RequirePermission(auth.PermPIPManage, h.Perms)).Put("/{pipID}/status", h.handleStatus)
		r.With(middleware.RequirePermission(auth.PermPIPAcknowledge, h.Perms)).Post("/{pipID}/acknowledge", h.handleAcknowledge)
		r.With(middleware.RequirePermission(auth.PermPIPRead, h.Perms)).Get("/{pipID}/document", h.handleDocument)
		r.With(middleware.RequirePermission(auth.PermPIPLetters, h.Perms)).Get("/{pipID}/letter", h.handleLetter)
		r.With(middleware.RequirePermission(auth.PermPIPLetters, h.Perms)).Post("/{pipID}/letter/archive", h.handleArchiveLetter)
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/{pipID}/history", h.handleHistory)
	})
}

type expectationPayload struct {
	Phase           string `json:"phase"`
	Category        string `json:"category"`
	Expectation     string `json:"expectation"`
	SuccessCriteria string `json:"successCriteria"`
	OrderIndex      int    `json:"orderIndex"`
}

type createPayload struct {
	EmployeeID      string               `json:"employeeId"`
	ManagerID       string               `json:"managerId"`
	StartDate       string               `json:"startDate"`
	ReasonForPIP    string               `json:"reasonForPip"`
	Consequences    string               `json:"consequences"`
	SupportProvided string               `json:"supportProvided"`
	Plan            *review.DraftPlan    `json:"plan"`
	Expectations    []expectationPayload `json:"expectations"`
}

type checkInPayload struct {
	CheckInDate     string                  `json:"checkInDate"`
	OverallStatus   string                  `json:"overallStatus"`
	ProgressSummary string                  `json:"progressSummary"`
	Attendees       []string                `json:"attendees"`
	Updates         []pip.ExpectationUpdate `json:"updates"`
}

type milestonePayload struct {
	Milestone         string `json:"milestone"`
	ReviewDate        string `json:"reviewDate"`
	OverallRating     string `json:"overallRating"`
	Decision          string `json:"decision"`
	DecisionRationale string `json:"decisionRationale"`
}

type statusPayload struct {
	Status  string `json:"status"`
	Outcome string `json:"outcome"`
}

type batchPayload struct {
	PIPIDs []string `json:"pipIds"`
	AsOf   string   `json:"asOf"`
}

var (
	phaseValues         = []string{string(pip.Phase30), string(pip.Phase60), string(pip.Phase90)}
	closingStatusValues = []string{string(pip.StatusCompleted), string(pip.StatusTerminated), string(pip.StatusExtended)}
	checkInStatusValues = []string{
		string(pip.CheckInOnTrack),
		string(pip.CheckInAtRisk),
		string(pip.CheckInOffTrack),
		string(pip.CheckInNeedsAttention),
	}
	expectationStatusValues = []string{
		string(pip.ExpectationPending),
		string(pip.ExpectationInProgress),
		string(pip.ExpectationPartiallyMet),
		string(pip.ExpectationMet),
		string(pip.ExpectationNotMet),
	}
)

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload createPayload
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("employeeId", payload.EmployeeID, "is required")
	validator.Required("managerId", payload.ManagerID, "is required")
	startDate, _ := validator.Date("startDate", payload.StartDate)
	validator.Required("reasonForPip", payload.ReasonForPIP, "is required")
	expectations := make([]pip.Expectation, 0, len(payload.Expectations))
	for i, e := range payload.Expectations {
		field := "expectations[" + strconv.Itoa(i) + "]"
		validator.Required(field+".phase", e.Phase, "is required")
		validator.Enum(field+".phase", e.Phase, phaseValues, "must be one of 30_day, 60_day, 90_day")
		validator.Required(field+".expectation", e.Expectation, "is required")
		expectations = append(expectations, pip.Expectation{
			Phase:           pip.Phase(strings.ToLower(strings.TrimSpace(e.Phase))),
			Category:        strings.TrimSpace(e.Category),
			Expectation:     strings.TrimSpace(e.Expectation),
			SuccessCriteria: strings.TrimSpace(e.SuccessCriteria),
			OrderIndex:      e.OrderIndex,
		})
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" && h.Idem != nil {
		stored, found, err := h.Idem.Check(r.Context(), user.TenantID, user.UserID, "pips.create", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "idempotency_failed", "failed to check idempotency", middleware.GetRequestID(r.Context()))
			return
		}
		if found {
			api.Created(w, stored, middleware.GetRequestID(r.Context()))
			return
		}
	}

	snap, err := h.Service.CreatePIP(r.Context(), user.TenantID, pip.CreateInput{
		EmployeeID:      strings.TrimSpace(payload.EmployeeID),
		ManagerID:       strings.TrimSpace(payload.ManagerID),
		StartDate:       startDate,
		ReasonForPIP:    payload.ReasonForPIP,
		Consequences:    payload.Consequences,
		SupportProvided: payload.SupportProvided,
		Plan:            payload.Plan,
		Expectations:    expectations,
	})
	if err != nil {
		writeError(w, r, err, "pip_create_failed", "failed to create pip")
		return
	}
	h.audit(r, user, audit.ActionPIPCreate, snap.PIP.ID, nil, snap.PIP)

	if idempotencyKey != "" && h.Idem != nil {
		encoded, err := json.Marshal(snap)
		if err != nil {
			requestctx.Logger(r.Context()).Warn("pip create response encode failed", "err", err)
		} else if err := h.Idem.Save(requestctx.Detach(r.Context()), user.TenantID, user.UserID, "pips.create", idempotencyKey, requestHash, encoded); err != nil {
			requestctx.Logger(r.Context()).Warn("pip create idempotency save failed", "err", err)
		}
	}
	api.Created(w, snap, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	asOf, ok := h.parseAsOf(w, r, r.URL.Query().Get("asOf"))
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 25, 100)
	results, total, err := h.Service.ListActive(r.Context(), user.TenantID, asOf, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err, "pip_list_failed", "failed to list active pips")
		return
	}
	page.WriteTotal(w, total)
	api.Success(w, results, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssessMany(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload batchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	ids := make([]string, 0, len(payload.PIPIDs))
	for _, id := range payload.PIPIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	validator.Count("pipIds", len(ids), 1, maxBatchAssessments, "id")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	asOf, ok := h.parseAsOf(w, r, payload.AsOf)
	if !ok {
		return
	}

	results, err := h.Service.AssessMany(r.Context(), user.TenantID, ids, asOf)
	if err != nil {
		writeError(w, r, err, "pip_assess_failed", "failed to assess pips")
		return
	}
	api.Success(w, results, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssess(w http.ResponseWriter, r *http.Request) {
	user, pipID, ok := h.viewable(w, r)
	if !ok {
		return
	}
	asOf, ok := h.parseAsOf(w, r, r.URL.Query().Get("asOf"))
	if !ok {
		return
	}

	assessment, err := h.Service.Assess(r.Context(), user.TenantID, pipID, asOf)
	if err != nil {
		writeError(w, r, err, "pip_assess_failed", "failed to assess pip")
		return
	}
	api.Success(w, assessment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload checkInPayload
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	checkInDate, _ := validator.Date("checkInDate", payload.CheckInDate)
	validator.Required("overallStatus", payload.OverallStatus, "is required")
	validator.Enum("overallStatus", payload.OverallStatus, checkInStatusValues, "must be one of on_track, at_risk, off_track, needs_attention")
	for i, u := range payload.Updates {
		field := "updates[" + strconv.Itoa(i) + "]"
		validator.Required(field+".expectationId", u.ExpectationID, "is required")
		validator.Enum(field+".status", string(u.Status), expectationStatusValues, "must be a valid expectation status")
		validator.Range(field+".progressPercentage", u.ProgressPercentage, 0, 100)
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	endpoint := "pips.checkins:" + pipID
	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" && h.Idem != nil {
		stored, found, err := h.Idem.Check(r.Context(), user.TenantID, user.UserID, endpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "idempotency_failed", "failed to check idempotency", middleware.GetRequestID(r.Context()))
			return
		}
		if found {
			api.Created(w, stored, middleware.GetRequestID(r.Context()))
			return
		}
	}

	checkIn, err := h.Service.RecordCheckIn(r.Context(), user.TenantID, pip.CheckIn{
		PIPID:           pipID,
		CheckInDate:     checkInDate,
		OverallStatus:   pip.CheckInStatus(strings.ToLower(strings.TrimSpace(payload.OverallStatus))),
		ProgressSummary: strings.TrimSpace(payload.ProgressSummary),
		Attendees:       payload.Attendees,
	}, payload.Updates)
	if err != nil {
		writeError(w, r, err, "pip_checkin_failed", "failed to record check-in")
		return
	}
	h.audit(r, user, audit.ActionPIPCheckIn, pipID, nil, map[string]any{"checkIn": checkIn, "updates": payload.Updates})

	if idempotencyKey != "" && h.Idem != nil {
		encoded, err := json.Marshal(checkIn)
		if err != nil {
			requestctx.Logger(r.Context()).Warn("pip check-in response encode failed", "err", err)
		} else if err := h.Idem.Save(requestctx.Detach(r.Context()), user.TenantID, user.UserID, endpoint, idempotencyKey, requestHash, encoded); err != nil {
			requestctx.Logger(r.Context()).Warn("pip check-in idempotency save failed", "err", err)
		}
	}
	api.Created(w, checkIn, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMilestoneReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")

	var payload milestonePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("milestone", payload.Milestone, "is required")
	validator.Enum("milestone", payload.Milestone, phaseValues, "must be one of 30_day, 60_day, 90_day")
	reviewDate, _ := validator.Date("reviewDate", payload.ReviewDate)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	saved, err := h.Service.RecordMilestoneReview(r.Context(), user.TenantID, pip.MilestoneReview{
		PIPID:             pipID,
		Milestone:         pip.Phase(strings.ToLower(strings.TrimSpace(payload.Milestone))),
		ReviewDate:        reviewDate,
		OverallRating:     strings.TrimSpace(payload.OverallRating),
		Decision:          strings.TrimSpace(payload.Decision),
		DecisionRationale: strings.TrimSpace(payload.DecisionRationale),
	})
	if err != nil {
		writeError(w, r, err, "pip_review_failed", "failed to record milestone review")
		return
	}
	h.audit(r, user, audit.ActionPIPMilestoneReview, pipID, nil, saved)
	api.Created(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("status", payload.Status, "is required")
	validator.Enum("status", payload.Status, closingStatusValues, "must be one of completed, terminated, extended")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	to := pip.Status(strings.ToLower(strings.TrimSpace(payload.Status)))
	updated, err := h.Service.ChangeStatus(r.Context(), user.TenantID, pipID, to, payload.Outcome)
	if err != nil {
		writeError(w, r, err, "pip_status_failed", "failed to update pip status")
		return
	}
	h.audit(r, user, audit.ActionPIPStatus, pipID, map[string]string{"status": string(pip.StatusActive)}, map[string]string{"status": string(updated.Status), "outcome": updated.Outcome})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")

	current, err := h.Service.Get(r.Context(), user.TenantID, pipID)
	if err != nil {
		writeError(w, r, err, "pip_acknowledge_failed", "failed to acknowledge pip")
		return
	}
	if user.EmployeeID == "" || current.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the employee on the plan can acknowledge it", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.Acknowledge(r.Context(), user.TenantID, pipID)
	if err != nil {
		writeError(w, r, err, "pip_acknowledge_failed", "failed to acknowledge pip")
		return
	}
	h.audit(r, user, audit.ActionPIPAcknowledge, pipID, nil, map[string]any{"acknowledgedAt": updated.AcknowledgedAt})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	user, pipID, ok := h.viewable(w, r)
	if !ok {
		return
	}
	asOf, ok := h.parseAsOf(w, r, r.URL.Query().Get("asOf"))
	if !ok {
		return
	}

	doc, err := h.Service.Document(r.Context(), user.TenantID, pipID, asOf, parseLanguage(r))
	if err != nil {
		writeError(w, r, err, "pip_document_failed", "failed to build pip document")
		return
	}
	api.Success(w, doc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLetter(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")
	asOf, ok := h.parseAsOf(w, r, r.URL.Query().Get("asOf"))
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.Service.Letter(r.Context(), user.TenantID, pipID, asOf, parseLanguage(r), &buf); err != nil {
		writeError(w, r, err, "pip_letter_failed", "failed to render pip letter")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=pip-"+pipID+".pdf")
	if _, err := w.Write(buf.Bytes()); err != nil {
		requestctx.Logger(r.Context()).Warn("pip letter write failed", "err", err, "pipId", pipID)
	}
}

func (h *Handler) handleArchiveLetter(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")
	asOf, ok := h.parseAsOf(w, r, r.URL.Query().Get("asOf"))
	if !ok {
		return
	}

	path, err := h.Service.ArchiveLetter(r.Context(), user.TenantID, pipID, asOf)
	if err != nil {
		writeError(w, r, err, "pip_letter_archive_failed", "failed to archive pip letter")
		return
	}
	h.audit(r, user, audit.ActionPIPLetterArchive, pipID, nil, map[string]string{"path": path})
	api.Created(w, map[string]string{"pipId": pipID, "path": path}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Audit == nil {
		api.Success(w, []audit.Event{}, middleware.GetRequestID(r.Context()))
		return
	}
	pipID := chi.URLParam(r, "pipID")

	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{EntityType: audit.EntityPIP, EntityID: pipID}
	total, err := h.Audit.Count(r.Context(), user.TenantID, filter)
	if err != nil {
		requestctx.Logger(r.Context()).Warn("pip history count failed", "err", err, "pipId", pipID)
	}
	events, err := h.Audit.List(r.Context(), user.TenantID, filter, r.URL.Query().Get("includeDetails") == "true", page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pip_history_failed", "failed to list pip history", middleware.GetRequestID(r.Context()))
		return
	}
	page.WriteTotal(w, total)
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

// viewable resolves the caller and plan id, hiding other employees' plans
// from callers on the Employee role.
func (h *Handler) viewable(w http.ResponseWriter, r *http.Request) (auth.UserContext, string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, "", false
	}
	pipID := chi.URLParam(r, "pipID")
	if user.RoleName != auth.RoleEmployee {
		return user, pipID, true
	}
	current, err := h.Service.Get(r.Context(), user.TenantID, pipID)
	if err != nil {
		writeError(w, r, err, "pip_lookup_failed", "failed to load pip")
		return auth.UserContext{}, "", false
	}
	if user.EmployeeID == "" || current.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusNotFound, "not_found", "pip not found", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, "", false
	}
	return user, pipID, true
}

func (h *Handler) parseAsOf(w http.ResponseWriter, r *http.Request, raw string) (time.Time, bool) {
	asOf, err := shared.ParseAsOf(raw, h.Service.Now())
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "asOf", Reason: "must be a valid date in YYYY-MM-DD format"}})
		return time.Time{}, false
	}
	return asOf, true
}

func parseLanguage(r *http.Request) language.Tag {
	if raw := strings.TrimSpace(r.URL.Query().Get("lang")); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			return tag
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err == nil && len(tags) > 0 {
		return tags[0]
	}
	return language.Und
}

func (h *Handler) audit(r *http.Request, user auth.UserContext, action, pipID string, before, after any) {
	if h.Audit == nil {
		return
	}
	ctx := requestctx.Detach(r.Context())
	if err := h.Audit.Record(ctx, user.TenantID, user.UserID, action, audit.EntityPIP, pipID, requestctx.GetRequestID(ctx), requestctx.ClientIP(ctx), before, after); err != nil {
		requestctx.Logger(ctx).Warn("audit "+action+" failed", "err", err, "pipId", pipID)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, pip.ErrPIPNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "pip not found", requestID)
	case errors.Is(err, pip.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, pip.ErrPIPClosed):
		api.Fail(w, http.StatusConflict, "pip_closed", err.Error(), requestID)
	case errors.Is(err, pip.ErrAlreadyAcknowledged):
		api.Fail(w, http.StatusConflict, "already_acknowledged", err.Error(), requestID)
	case errors.Is(err, pip.ErrUnknownExpectation):
		api.Fail(w, http.StatusBadRequest, "unknown_expectation", err.Error(), requestID)
	case errors.Is(err, pip.ErrInvalidCheckIn), errors.Is(err, pip.ErrInvalidMilestone):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	default:
		requestctx.Logger(r.Context()).Warn(code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
