package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/types"
)

// Request модели

// CreateResourceRequest запрос на добавление ресурса в каталог
type CreateResourceRequest struct {
	SiteID                 int64           `json:"siteId"`
	Kind                   string          `json:"kind"` // lab | component | staff
	Name                   string          `json:"name"`
	CapacityUnits          int             `json:"capacityUnits"`
	StockQuantity          int             `json:"stockQuantity"`
	AvailableQuantity      *int            `json:"availableQuantity,omitempty"` // по умолчанию = stockQuantity
	WindowStart            string          `json:"windowStart"`                 // "09:00"
	WindowEnd              string          `json:"windowEnd"`                   // "18:00" или "24:00"
	Timezone               string          `json:"timezone"`
	SlotGranularityMinutes int             `json:"slotGranularityMinutes"`
	LeadTimeDays           int             `json:"leadTimeDays"`
	HourlyRate             decimal.Decimal `json:"hourlyRate"`
}

// ToDomain конвертирует запрос в доменную модель
func (r *CreateResourceRequest) ToDomain() (*domain.Resource, error) {
	start, err := types.NewTimeStringFromString(r.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("windowStart: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("windowEnd: %w", err)
	}

	res := &domain.Resource{
		SiteID:                 r.SiteID,
		Kind:                   domain.ResourceKind(r.Kind),
		Name:                   r.Name,
		CapacityUnits:          r.CapacityUnits,
		StockQuantity:          r.StockQuantity,
		AvailableQuantity:      r.StockQuantity,
		Window:                 domain.OperatingWindow{Start: start, End: end, Timezone: r.Timezone},
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		LeadTimeDays:           r.LeadTimeDays,
		HourlyRate:             r.HourlyRate,
		Active:                 true,
	}
	if r.AvailableQuantity != nil {
		res.AvailableQuantity = *r.AvailableQuantity
	}
	if res.Kind != domain.ResourceKindComponent && res.CapacityUnits == 0 {
		res.CapacityUnits = 1
	}
	return res, nil
}

// Response модели

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID                     int64           `json:"id"`
	SiteID                 int64           `json:"siteId"`
	Kind                   string          `json:"kind"`
	CapacityModel          string          `json:"capacityModel"`
	Name                   string          `json:"name"`
	Capacity               int             `json:"capacity"`
	StockQuantity          *int            `json:"stockQuantity,omitempty"`
	AvailableQuantity      *int            `json:"availableQuantity,omitempty"`
	WindowStart            string          `json:"windowStart"`
	WindowEnd              string          `json:"windowEnd"`
	Timezone               string          `json:"timezone"`
	SlotGranularityMinutes int             `json:"slotGranularityMinutes"`
	LeadTimeDays           int             `json:"leadTimeDays"`
	HourlyRate             decimal.Decimal `json:"hourlyRate"`
	Active                 bool            `json:"active"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// FromDomainResource конвертирует доменную модель в ответ
func FromDomainResource(res *domain.Resource) *ResourceResponse {
	resp := &ResourceResponse{
		ID:                     res.ID,
		SiteID:                 res.SiteID,
		Kind:                   string(res.Kind),
		CapacityModel:          string(res.CapacityModel()),
		Name:                   res.Name,
		Capacity:               res.Capacity(),
		WindowStart:            res.Window.Start.String(),
		WindowEnd:              res.Window.End.String(),
		Timezone:               res.Window.Timezone,
		SlotGranularityMinutes: res.SlotGranularityMinutes,
		LeadTimeDays:           res.LeadTimeDays,
		HourlyRate:             res.HourlyRate,
		Active:                 res.Active,
		CreatedAt:              res.CreatedAt,
		UpdatedAt:              res.UpdatedAt,
	}
	if res.CapacityModel() == domain.CapacityPooled {
		stock, available := res.StockQuantity, res.AvailableQuantity
		resp.StockQuantity = &stock
		resp.AvailableQuantity = &available
	}
	return resp
}

// FromDomainResourceList конвертирует список ресурсов
func FromDomainResourceList(resources []*domain.Resource) []*ResourceResponse {
	out := make([]*ResourceResponse, len(resources))
	for i, res := range resources {
		out[i] = FromDomainResource(res)
	}
	return out
}
