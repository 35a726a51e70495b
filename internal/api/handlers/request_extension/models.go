package request_extension

import "github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"

// ExtensionBody HTTP request model
type ExtensionBody struct {
	AdditionalMinutes int    `json:"additionalMinutes"`
	Reason            string `json:"reason"`
}

// ToServiceInput конвертирует HTTP запрос в модель сервиса
func (b *ExtensionBody) ToServiceInput() models.ExtensionInput {
	return models.ExtensionInput{
		AdditionalMinutes: b.AdditionalMinutes,
		Reason:            b.Reason,
	}
}
