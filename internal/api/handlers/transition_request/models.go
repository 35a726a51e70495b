package transition_request

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
)

// errBadBody тело запроса не разобрано
var errBadBody = errors.New("transition_request: bad body")

// ApproveBody HTTP request model
type ApproveBody struct {
	Note string `json:"note"`
}

// ReasonBody HTTP request model для отклонения и отмены
type ReasonBody struct {
	Reason string `json:"reason"`
}

// decodeOptional декодирует тело, пустое тело допустимо
func decodeOptional(r *http.Request, v interface{}) error {
	if err := handlers.DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
