package database

import (
	"sync"

	"gorm.io/gorm"
)

// AfterCommit — очередь колбэков, которые должны выполниться только после
// успешного коммита транзакции. GORM не дает нативного commit-hook,
// поэтому очередь дренируется вызывающей стороной сразу после Commit.
type AfterCommit struct {
	mu  sync.Mutex
	fns []func()
}

// Register добавляет колбэк в очередь. После rollback очередь не дренируется,
// и колбэк никогда не выполнится.
func (ac *AfterCommit) Register(fn func()) {
	if ac == nil || fn == nil {
		return
	}
	ac.mu.Lock()
	ac.fns = append(ac.fns, fn)
	ac.mu.Unlock()
}

func (ac *AfterCommit) fire() {
	ac.mu.Lock()
	fns := ac.fns
	ac.fns = nil
	ac.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Transaction оборачивает gorm.DB.Transaction и передает в fn очередь
// post-commit колбэков. Колбэки выполняются после успешного коммита,
// в порядке регистрации. При ошибке (rollback) очередь отбрасывается.
func Transaction(db *gorm.DB, fn func(tx *gorm.DB, hooks *AfterCommit) error) error {
	hooks := &AfterCommit{}

	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx, hooks)
	})
	if err != nil {
		return err
	}

	hooks.fire()
	return nil
}
