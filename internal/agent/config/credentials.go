// Package config содержит функции для работы с локальной конфигурацией taskctl.
//
// Конфигурация хранит access-токен и адрес сервера, на котором он получен,
// в домашней директории пользователя:
//
//	~/.taskboard/credentials.json
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Credentials содержит учётные данные, используемые CLI-клиентом.
type Credentials struct {
	Token  string `json:"token"`
	Server string `json:"server,omitempty"`
}

// DefaultPath возвращает <home>/.taskboard/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskboard", "credentials.json"), nil
}

// Load загружает конфигурацию из указанного файла.
//
// Если файл не существует, возвращает пустую конфигурацию без ошибки.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// дефолтный конфиг, если файла нет
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save сохраняет конфигурацию: каталог 0700, файл 0600.
func Save(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Clear удаляет файл с токеном. Отсутствие файла не ошибка.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
