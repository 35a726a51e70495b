package create_request

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

// CreateRequestBody HTTP request model
type CreateRequestBody struct {
	Title string     `json:"title"`
	Lines []LineBody `json:"lines"`
}

// LineBody позиция заявки
type LineBody struct {
	ResourceID int64     `json:"resourceId"`
	Start      time.Time `json:"start"` // RFC3339
	End        time.Time `json:"end"`
	Quantity   int       `json:"quantity"`
}

// ToServiceInput конвертирует HTTP запрос в модель сервиса
func (b *CreateRequestBody) ToServiceInput() *models.CreateRequestInput {
	lines := make([]models.LineInput, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = models.LineInput{
			ResourceID: l.ResourceID,
			Start:      l.Start,
			End:        l.End,
			Quantity:   l.Quantity,
		}
	}
	return &models.CreateRequestInput{Title: b.Title, Lines: lines}
}
