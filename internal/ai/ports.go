package ai

import "context"

// Completer — чёрный ящик генерации текста. Один промпт — один ответ.
type Completer interface {
	// Ready сообщает, сконфигурирован ли клиент (ключ на месте и похож
	// на настоящий). Проверяется ДО любого сетевого вызова.
	Ready() bool

	// Complete выполняет один запрос к модели. Пустая строка без ошибки
	// означает, что модель ничего не вернула.
	Complete(ctx context.Context, prompt string) (string, error)
}
