package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Role роль пользователя из заголовка X-Role
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

// Actor пользователь, от имени которого выполняется операция
type Actor struct {
	UserID         int64
	OrganizationID int64
	Role           Role
}

// IsAdmin возвращает true для администратора и внутренних вызовов
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

// System actor для операций, запускаемых самим сервисом
var System = Actor{Role: RoleSystem}

// LineInput позиция новой заявки
type LineInput struct {
	ResourceID int64
	Start      time.Time
	End        time.Time
	Quantity   int
}

// CreateRequestInput данные для создания черновика заявки
type CreateRequestInput struct {
	Title string
	Lines []LineInput
}

// ExtensionInput запрос на продление
type ExtensionInput struct {
	AdditionalMinutes int
	Reason            string
}

// ListFilter фильтр списка заявок
type ListFilter struct {
	Status       *string
	StartsAfter  *time.Time
	StartsBefore *time.Time
}

// LineItemResponse позиция заявки
type LineItemResponse struct {
	ID         int64           `json:"id"`
	ResourceID int64           `json:"resourceId"`
	Kind       string          `json:"kind"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Quantity   int             `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	Charge     decimal.Decimal `json:"charge"`
}

// ExtensionResponse продление
type ExtensionResponse struct {
	ID                int64           `json:"id"`
	AdditionalMinutes int             `json:"additionalMinutes"`
	Reason            string          `json:"reason"`
	Status            string          `json:"status"`
	AdminMessage      *string         `json:"adminMessage,omitempty"`
	PreviousEnd       time.Time       `json:"previousEnd"`
	NewEnd            time.Time       `json:"newEnd"`
	DeltaAmount       decimal.Decimal `json:"deltaAmount"`
	CreatedAt         time.Time       `json:"createdAt"`
	ResolvedAt        *time.Time      `json:"resolvedAt,omitempty"`
}

// RequestResponse модель заявки для ответа API
type RequestResponse struct {
	ID                 int64               `json:"id"`
	Number             string              `json:"number"`
	Title              string              `json:"title"`
	OrganizationID     int64               `json:"organizationId"`
	RequestedBy        int64               `json:"requestedBy"`
	Status             string              `json:"status"`
	LineItems          []LineItemResponse  `json:"lineItems"`
	Extensions         []ExtensionResponse `json:"extensions"`
	LinesTotal         decimal.Decimal     `json:"linesTotal"`
	ExtensionsTotal    decimal.Decimal     `json:"extensionsTotal"`
	Total              decimal.Decimal     `json:"total"`
	ScheduledStart     *time.Time          `json:"scheduledStart,omitempty"`
	ScheduledEnd       *time.Time          `json:"scheduledEnd,omitempty"`
	PaymentRequired    bool                `json:"paymentRequired"`
	ApprovalNote       *string             `json:"approvalNote,omitempty"`
	RejectionReason    *string             `json:"rejectionReason,omitempty"`
	CancellationReason *string             `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// RequestListResponse список заявок
type RequestListResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int                `json:"total"`
}

// FromDomainRequest конвертирует доменную заявку в модель ответа
func FromDomainRequest(req *domain.Request) *RequestResponse {
	lines := make([]LineItemResponse, 0, len(req.LineItems))
	for _, l := range req.LineItems {
		lines = append(lines, LineItemResponse{
			ID:         l.ID,
			ResourceID: l.ResourceID,
			Kind:       string(l.Kind),
			Start:      l.Interval.Start,
			End:        l.Interval.End,
			Quantity:   l.Quantity,
			Rate:       l.Rate,
			Charge:     l.Charge,
		})
	}

	extensions := make([]ExtensionResponse, 0, len(req.Extensions))
	for _, e := range req.Extensions {
		extensions = append(extensions, FromDomainExtension(&e))
	}

	return &RequestResponse{
		ID:                 req.ID,
		Number:             req.Number,
		Title:              req.Title,
		OrganizationID:     req.OrganizationID,
		RequestedBy:        req.RequestedBy,
		Status:             string(req.Status),
		LineItems:          lines,
		Extensions:         extensions,
		LinesTotal:         req.LinesTotal,
		ExtensionsTotal:    req.ExtensionsTotal,
		Total:              req.Total,
		ScheduledStart:     req.ScheduledStart,
		ScheduledEnd:       req.ScheduledEnd,
		PaymentRequired:    req.PaymentRequired,
		ApprovalNote:       req.ApprovalNote,
		RejectionReason:    req.RejectionReason,
		CancellationReason: req.CancellationReason,
		CreatedAt:          req.CreatedAt,
		UpdatedAt:          req.UpdatedAt,
	}
}

// FromDomainExtension конвертирует продление в модель ответа
func FromDomainExtension(e *domain.Extension) ExtensionResponse {
	return ExtensionResponse{
		ID:                e.ID,
		AdditionalMinutes: e.AdditionalMinutes,
		Reason:            e.Reason,
		Status:            string(e.Status),
		AdminMessage:      e.AdminMessage,
		PreviousEnd:       e.PreviousEnd,
		NewEnd:            e.NewEnd,
		DeltaAmount:       e.DeltaAmount,
		CreatedAt:         e.CreatedAt,
		ResolvedAt:        e.ResolvedAt,
	}
}

// FromDomainRequestList конвертирует список заявок
func FromDomainRequestList(requests []*domain.Request) *RequestListResponse {
	out := make([]*RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, FromDomainRequest(r))
	}
	return &RequestListResponse{Requests: out, Total: len(out)}
}
