package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
)

var (
	// ErrUnknownSequence возвращается для имени, которого нет в списке разрешённых
	ErrUnknownSequence = errors.New("sequence.repository: unknown sequence")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("sequence.repository: failed to execute query")
)

// Generator выдаёт номера из последовательностей PostgreSQL
type Generator struct {
	db      dbmetrics.DBExecutor
	allowed map[string]struct{}
}

// NewGenerator создает генератор для перечисленных последовательностей
func NewGenerator(db dbmetrics.DBExecutor, names ...string) *Generator {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	return &Generator{db: db, allowed: allowed}
}

// Next возвращает следующее значение последовательности
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	if _, ok := g.allowed[name]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSequence, name)
	}

	executor := dbmetrics.GetExecutor(ctx, g.db)

	var value int64
	if err := executor.QueryRowContext(ctx, "SELECT nextval($1::regclass)", name).Scan(&value); err != nil {
		return 0, fmt.Errorf("%w: Next - nextval(%s): %v", ErrExecQuery, name, err)
	}

	return value, nil
}
