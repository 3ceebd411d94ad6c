package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// EmailPattern определяет допустимый формат email.
// Не претендует на полное соответствие RFC 5322, отсекает очевидный мусор.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxEmailLen максимальная длина email
	MaxEmailLen = 254
)

// allowedExtensions содержит расширения, принимаемые для загрузки.
// Проверяется на клиенте до любого сетевого вызова и повторно на сервере.
var allowedExtensions = map[string]bool{
	"xlsx": true,
	"xls":  true,
	"docx": true,
	"pptx": true,
	"pdf":  true,
	"txt":  true,
	"rtf":  true,
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// FileExt возвращает расширение файла в нижнем регистре без точки
func FileExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ValidateUploadFilename проверяет расширение файла по allow-list.
// Неподдерживаемое расширение отклоняется локально, без сетевого вызова.
func ValidateUploadFilename(filename string) error {
	ext := FileExt(filename)
	if ext == "" {
		return fmt.Errorf("file has no extension")
	}
	if !allowedExtensions[ext] {
		return fmt.Errorf("file type .%s is not supported (allowed: %s)", ext, strings.Join(AllowedExtensions(), ", "))
	}
	return nil
}

// AllowedExtensions возвращает отсортированный allow-list расширений
func AllowedExtensions() []string {
	// фиксированный порядок для стабильных сообщений об ошибках
	return []string{"docx", "pdf", "pptx", "rtf", "txt", "xls", "xlsx"}
}

// ValidateTopUpAmount проверяет сумму пополнения до отправки запроса
func ValidateTopUpAmount(amount, minAmount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if amount < minAmount {
		return fmt.Errorf("minimum top-up amount is %d", minAmount)
	}
	return nil
}
