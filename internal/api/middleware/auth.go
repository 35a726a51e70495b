package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

const (
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Organization-ID"
	HeaderRole           = "X-Role"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidOrgID  = "некорректный ID организации"
	msgUnknownRole   = "неизвестная роль пользователя"
	msgAdminRequired = "операция доступна только администратору"
)

type contextKey string

const actorKey contextKey = "actor"

// Auth извлекает пользователя из заголовков, выставленных внешним слоем аутентификации
// Значения заголовков считаются доверенными
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		var orgID int64
		if orgIDStr := r.Header.Get(HeaderOrganizationID); orgIDStr != "" {
			orgID, err = strconv.ParseInt(orgIDStr, 10, 64)
			if err != nil {
				handlers.RespondBadRequest(w, msgInvalidOrgID)
				return
			}
		}

		role := models.Role(r.Header.Get(HeaderRole))
		switch role {
		case "":
			role = models.RoleCustomer
		case models.RoleCustomer, models.RoleAdmin:
		default:
			// system зарезервирована за фоновыми задачами
			handlers.RespondForbidden(w, msgUnknownRole)
			return
		}

		actor := models.Actor{UserID: userID, OrganizationID: orgID, Role: role}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireAdmin пропускает только администраторов, используется после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok || !actor.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладёт пользователя в контекст
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor возвращает пользователя из контекста
func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}
