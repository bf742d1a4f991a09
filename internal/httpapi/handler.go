package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/insight"
	"github.com/shubhamgosaii/growthosai/internal/models"
	"github.com/shubhamgosaii/growthosai/internal/store"
)

// defaultInsightLimit bounds the /insights listing when the caller does not
// ask for a specific page size.
const defaultInsightLimit = 50

// InsightService is the slice of the pipeline the handlers need.
type InsightService interface {
	Query(ctx context.Context, prompt string, mode insight.Mode) (insight.QueryResult, error)
	AutoRun(ctx context.Context) (models.Insight, error)
}

type Handler struct {
	store    store.Store
	insights InsightService
}

func NewHandler(st store.Store, insights InsightService) *Handler {
	return &Handler{store: st, insights: insights}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/create-employee", h.handleCreateEmployee)
	mux.HandleFunc("/attendance/mark", h.handleMarkAttendance)
	mux.HandleFunc("/leave/request", h.handleLeaveRequest)
	mux.HandleFunc("/leave/action", h.handleLeaveAction)
	mux.HandleFunc("/leave/list", h.handleLeaveList)
	mux.HandleFunc("/ai/query", h.handleAIQuery)
	mux.HandleFunc("/ai/auto-run", h.handleAutoRun)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/verify-login", h.handleVerifyLogin)
	mux.HandleFunc("/insights", h.handleInsights)
	return mux
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("GrowthOS API is running"))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type createEmployeeRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Role       string `json:"role"`
	HRUID      string `json:"hrUid"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Department = strings.TrimSpace(req.Department)
	req.Role = strings.TrimSpace(req.Role)
	req.HRUID = strings.TrimSpace(req.HRUID)

	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Department == "" || req.Role == "" || req.HRUID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "fullName, email, password, department, role, and hrUid are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "weak_password", "password must be at least 6 characters")
		return
	}

	uid, err := h.store.CreateEmployee(r.Context(), store.CreateEmployeeInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Role:       accountTypeFor(req.Role),
		CreatedBy:  req.HRUID,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "uid": uid})
}

// accountTypeFor collapses free-form job titles into the two account types
// the dashboard understands. Only an explicit HR claim yields HR access.
func accountTypeFor(role string) string {
	if strings.EqualFold(role, models.RoleHR) {
		return models.RoleHR
	}
	return models.RoleEmployee
}

func (h *Handler) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		UID string `json:"uid"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UID = strings.TrimSpace(req.UID)
	if req.UID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "uid is required")
		return
	}

	now := time.Now().UTC()
	result, err := h.store.MarkAttendance(r.Context(), req.UID, now.Format("2006-01-02"), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"checkedOut": result.CheckedOut,
		"record":     result.Record,
	})
}

type leaveRequestBody struct {
	UID    string `json:"uid"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

func (h *Handler) handleLeaveRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req leaveRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UID = strings.TrimSpace(req.UID)
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.UID == "" || req.From == "" || req.To == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "uid, from, to, and reason are required")
		return
	}

	leave, err := h.store.CreateLeaveRequest(r.Context(), store.LeaveRequestInput{
		UID:    req.UID,
		From:   req.From,
		To:     req.To,
		Reason: req.Reason,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "leaveId": leave.LeaveID})
}

func (h *Handler) handleLeaveAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		LeaveID string `json:"leaveId"`
		Status  string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LeaveID = strings.TrimSpace(req.LeaveID)
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if req.LeaveID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "leaveId is required")
		return
	}
	if req.Status != models.LeaveApproved && req.Status != models.LeaveRejected {
		writeError(w, http.StatusBadRequest, "invalid_request", "status must be APPROVED or REJECTED")
		return
	}

	if err := h.store.SetLeaveStatus(r.Context(), req.LeaveID, req.Status); err != nil {
		if errors.Is(err, store.ErrLeaveNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "leave request not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) handleLeaveList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	uid := strings.TrimSpace(r.URL.Query().Get("uid"))
	if uid == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "uid is required")
		return
	}

	leaves, err := h.store.ListLeavesByUser(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if leaves == nil {
		leaves = []models.LeaveRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaves": leaves})
}

func (h *Handler) handleAIQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
		Mode   string `json:"mode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "prompt is required")
		return
	}

	result, err := h.insights.Query(r.Context(), req.Prompt, insight.ParseMode(req.Mode))
	if err != nil {
		// Deliberately generic: provider errors must not leak to clients.
		writeError(w, http.StatusInternalServerError, "ai_failed", "AI assistant is unavailable right now")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reply": result.Reply, "intent": result.Intent})
}

func (h *Handler) handleAutoRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	alert, err := h.insights.AutoRun(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ai_failed", "AI assistant is unavailable right now")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "alert": alert})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"uid":       user.UID,
		"role":      user.Role,
		"dashboard": dashboardFor(user.Role),
	})
}

type verifyLoginRequest struct {
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// handleVerifyLogin is the authorization half of the two-step login: the
// password was already checked by /auth/login, and this call only verifies
// the client's department and role claims against the user record.
func (h *Handler) handleVerifyLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req verifyLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Department = strings.TrimSpace(req.Department)
	req.Role = strings.TrimSpace(req.Role)
	if req.Email == "" || req.Department == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email, department, and role are required")
		return
	}

	user, err := h.store.FindUserInDepartment(r.Context(), req.Department, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"authorized": false,
				"reason":     "User not found in department",
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if !strings.EqualFold(user.Role, req.Role) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authorized": false, "reason": "Role mismatch"})
		return
	}
	if user.Status != models.StatusActive {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authorized": false, "reason": "Account inactive"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authorized": true,
		"uid":        user.UID,
		"dashboard":  dashboardFor(user.Role),
	})
}

func dashboardFor(role string) string {
	if role == models.RoleHR {
		return "/hr/dashboard"
	}
	return "/employee/dashboard"
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := defaultInsightLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	insights, err := h.store.ListInsights(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if insights == nil {
		insights = []models.Insight{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"insights": insights})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
