package lifecycle

import "time"

// Config параметры жизненного цикла заявок
type Config struct {
	// AutoApproveExtensions одобрять продление сразу после успешной проверки
	AutoApproveExtensions bool
	// LockWait сколько ждать блокировок ресурсов
	LockWait time.Duration
}
