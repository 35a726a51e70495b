package memory

import "context"

// SequenceGenerator счётчики номеров в памяти
type SequenceGenerator struct {
	s *Store
}

// Next возвращает следующее значение последовательности, начиная с 1
func (g *SequenceGenerator) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	g.s.write(ctx, func(st *state) {
		st.sequences[name]++
		value = st.sequences[name]
	})
	return value, nil
}
