package auth

import "github.com/Freeeeeet/consult_scheduler/internal/model"

// Principal текущий пользователь, от имени которого выполняется операция.
// Передаётся явно в каждый сервисный метод.
type Principal struct {
	UserID int64
	Role   model.Role
}

// IsConsultant проверяет роль консультанта
func (p Principal) IsConsultant() bool {
	return p.Role == model.RoleConsultant
}

// IsZero true для неаутентифицированного вызова
func (p Principal) IsZero() bool {
	return p.UserID == 0
}

// ForUser собирает Principal из пользователя
func ForUser(u *model.User) Principal {
	if u == nil {
		return Principal{}
	}
	return Principal{UserID: u.ID, Role: u.Role}
}
