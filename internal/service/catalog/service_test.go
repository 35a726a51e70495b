package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

func labRequest() *models.CreateResourceRequest {
	return &models.CreateResourceRequest{
		SiteID:                 1,
		Kind:                   "lab",
		Name:                   "Thermal vacuum chamber",
		WindowStart:            "08:00",
		WindowEnd:              "20:00",
		Timezone:               "Europe/Berlin",
		SlotGranularityMinutes: 60,
		LeadTimeDays:           2,
		HourlyRate:             decimal.RequireFromString("150.00"),
	}
}

func TestCreateResource_Lab(t *testing.T) {
	svc := NewService(memory.NewStore().Resources(), logger.NewNop())

	res, err := svc.CreateResource(context.Background(), labRequest())
	require.NoError(t, err)

	assert.NotZero(t, res.ID)
	assert.Equal(t, domain.ResourceKindLab, res.Kind)
	assert.Equal(t, domain.CapacityTimeSlotted, res.CapacityModel())
	assert.Equal(t, 1, res.Capacity())
	assert.True(t, res.Active)
}

func TestCreateResource_Component(t *testing.T) {
	svc := NewService(memory.NewStore().Resources(), logger.NewNop())

	req := labRequest()
	req.Kind = "component"
	req.Name = "Strain gauge"
	req.StockQuantity = 12
	available := 9
	req.AvailableQuantity = &available

	res, err := svc.CreateResource(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.CapacityPooled, res.CapacityModel())
	assert.Equal(t, 12, res.StockQuantity)
	assert.Equal(t, 9, res.AvailableQuantity)
}

func TestCreateResource_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateResourceRequest)
	}{
		{"unknown kind", func(r *models.CreateResourceRequest) { r.Kind = "hangar" }},
		{"empty name", func(r *models.CreateResourceRequest) { r.Name = "" }},
		{"bad window format", func(r *models.CreateResourceRequest) { r.WindowStart = "8am" }},
		{"inverted window", func(r *models.CreateResourceRequest) { r.WindowStart, r.WindowEnd = "20:00", "08:00" }},
		{"unknown timezone", func(r *models.CreateResourceRequest) { r.Timezone = "Mars/Olympus" }},
		{"zero granularity", func(r *models.CreateResourceRequest) { r.SlotGranularityMinutes = 0 }},
		{"negative lead time", func(r *models.CreateResourceRequest) { r.LeadTimeDays = -1 }},
		{"negative rate", func(r *models.CreateResourceRequest) { r.HourlyRate = decimal.NewFromInt(-1) }},
		{"component without stock", func(r *models.CreateResourceRequest) { r.Kind = "component" }},
		{"available above stock", func(r *models.CreateResourceRequest) {
			r.Kind = "component"
			r.StockQuantity = 2
			available := 3
			r.AvailableQuantity = &available
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(memory.NewStore().Resources(), logger.NewNop())
			req := labRequest()
			tt.mutate(req)

			_, err := svc.CreateResource(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestGetResource(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Resources(), logger.NewNop())

	active, err := svc.CreateResource(ctx, labRequest())
	require.NoError(t, err)
	inactive, err := store.Resources().Create(ctx, &domain.Resource{
		Kind: domain.ResourceKindStaff, Name: "Test engineer", CapacityUnits: 1, Active: false,
	})
	require.NoError(t, err)

	got, err := svc.GetResource(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.Name, got.Name)

	_, err = svc.GetResource(ctx, inactive.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = svc.GetResource(ctx, 9999)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListResources_Filter(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Resources(), logger.NewNop())

	_, err := svc.CreateResource(ctx, labRequest())
	require.NoError(t, err)

	other := labRequest()
	other.SiteID = 2
	other.Kind = "staff"
	other.Name = "Test engineer"
	_, err = svc.CreateResource(ctx, other)
	require.NoError(t, err)

	_, err = store.Resources().Create(ctx, &domain.Resource{
		SiteID: 1, Kind: domain.ResourceKindLab, Name: "Retired shaker", CapacityUnits: 1, Active: false,
	})
	require.NoError(t, err)

	all, err := svc.ListResources(ctx, domain.ResourceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	site := int64(1)
	bySite, err := svc.ListResources(ctx, domain.ResourceFilter{SiteID: &site})
	require.NoError(t, err)
	require.Len(t, bySite, 1)
	assert.Equal(t, "Thermal vacuum chamber", bySite[0].Name)

	withInactive, err := svc.ListResources(ctx, domain.ResourceFilter{SiteID: &site, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, withInactive, 2)

	staff := domain.ResourceKindStaff
	byKind, err := svc.ListResources(ctx, domain.ResourceFilter{Kind: &staff})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, int64(2), byKind[0].SiteID)
}
