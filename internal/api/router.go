package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/check_availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/delete_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_calendar"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_invoices"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_requests"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_resources"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/payment_callback"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/request_extension"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/resolve_extension"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/transition_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
)

// Handlers набор обработчиков HTTP API
type Handlers struct {
	ListResources     *list_resources.Handler
	GetResource       *get_resource.Handler
	CreateResource    *create_resource.Handler
	CheckAvailability *check_availability.Handler
	GetCalendar       *get_calendar.Handler
	CreateRequest     *create_request.Handler
	GetRequest        *get_request.Handler
	ListRequests      *list_requests.Handler
	DeleteRequest     *delete_request.Handler
	Transitions       *transition_request.Handler
	RequestExtension  *request_extension.Handler
	ResolveExtension  *resolve_extension.Handler
	ListInvoices      *list_invoices.Handler
	PaymentCallback   *payment_callback.Handler
}

// Options параметры роутера
type Options struct {
	// Metrics включает HTTP метрики, nil - без метрик
	Metrics middleware.HTTPMetrics
	// MetricsHandler отдаёт метрики по MetricsPath
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter собирает маршруты /api/v1
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	// Metrics endpoint (публичный, без аутентификации)
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог и доступность
	api.HandleFunc("/resources", h.ListResources.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId:[0-9]+}", h.GetResource.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId:[0-9]+}/availability", h.CheckAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId:[0-9]+}/calendar", h.GetCalendar.Handle).Methods(http.MethodGet)

	// Уведомления платёжного шлюза
	api.HandleFunc("/payments/callback", h.PaymentCallback.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Заявки ---
	protected.HandleFunc("/requests", h.CreateRequest.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/requests", h.ListRequests.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{requestId:[0-9]+}", h.GetRequest.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{requestId:[0-9]+}", h.DeleteRequest.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/invoices", h.ListInvoices.Handle).Methods(http.MethodGet)

	// --- Переходы статуса ---
	protected.HandleFunc("/requests/{requestId:[0-9]+}/submit", h.Transitions.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/review", h.Transitions.Review).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/approve", h.Transitions.Approve).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/reject", h.Transitions.Reject).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/cancel", h.Transitions.Cancel).Methods(http.MethodPost)

	// --- Продления ---
	protected.HandleFunc("/requests/{requestId:[0-9]+}/extensions", h.RequestExtension.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/extensions/{extensionId:[0-9]+}/approve",
		h.ResolveExtension.Approve).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{requestId:[0-9]+}/extensions/{extensionId:[0-9]+}/reject",
		h.ResolveExtension.Reject).Methods(http.MethodPost)

	// --- Управление каталогом (администратор) ---
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/resources", h.CreateResource.Handle).Methods(http.MethodPost)

	return r
}
