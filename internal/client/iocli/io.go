package iocli

//go:generate moq -out io_mock.go . IO

// IO абстрагирует терминальный ввод-вывод, чтобы команды CLI
// можно было тестировать без настоящего stdin/stdout.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	// Confirm запрашивает явное подтверждение деструктивного действия
	Confirm(prompt string) (bool, error)
}
