// Утилитарные функции общего назначения
package utils

// StrPtr — указатель на копию строки (для опциональных полей patch-запросов).
func StrPtr(s string) *string {
	return &s
}
