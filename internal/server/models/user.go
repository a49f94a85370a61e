// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — запись таблицы users.
//
// PasswordHash никогда не сериализуется в ответы API. Для пользователей,
// созданных через POST /users, хэша нет (пустая строка).
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserPatch — частичное обновление пользователя, nil означает "не трогать".
type UserPatch struct {
	Name  *string
	Email *string
}

// Empty сообщает, что обновлять нечего.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil
}
