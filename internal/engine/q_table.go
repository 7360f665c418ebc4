package engine

import "slices"

// QTable maps a state to one value per action, aligned with the action order
// the table was created with. States get their row on first touch.
type QTable[S comparable] struct {
	actions []Action
	index   map[Action]int
	data    map[S][]float64
}

func newQTable[S comparable](actions []Action) *QTable[S] {
	index := make(map[Action]int, len(actions))
	for i, a := range actions {
		index[a] = i
	}
	return &QTable[S]{
		actions: slices.Clone(actions),
		index:   index,
		data:    make(map[S][]float64),
	}
}

// EnsureState gives state a zeroed row if it has none. Calling it again is a no-op.
func (q *QTable[S]) EnsureState(state S) {
	q.ensureRow(state)
}

func (q *QTable[S]) ensureRow(state S) []float64 {
	row, ok := q.data[state]
	if !ok {
		row = make([]float64, len(q.actions))
		q.data[state] = row
	}
	return row
}

// Has reports whether state has been initialised.
func (q *QTable[S]) Has(state S) bool {
	_, ok := q.data[state]
	return ok
}

// Value returns Q(state, action). Unknown states and actions read as 0
// without being inserted.
func (q *QTable[S]) Value(state S, action Action) float64 {
	row, ok := q.data[state]
	if !ok {
		return 0
	}
	i, ok := q.index[action]
	if !ok {
		return 0
	}
	return row[i]
}

// Values returns a copy of the row for state, or nil if it was never visited.
func (q *QTable[S]) Values(state S) []float64 {
	row, ok := q.data[state]
	if !ok {
		return nil
	}
	return slices.Clone(row)
}

// Max returns the largest action value recorded for state (0 if unvisited).
func (q *QTable[S]) Max(state S) float64 {
	row, ok := q.data[state]
	if !ok {
		return 0
	}
	return row[argmax(row)]
}

// Greedy returns the highest valued action for state. Ties go to the action
// declared first.
func (q *QTable[S]) Greedy(state S) Action {
	row, ok := q.data[state]
	if !ok {
		return q.actions[0]
	}
	return q.actions[argmax(row)]
}

// Actions returns the action order rows are aligned with.
func (q *QTable[S]) Actions() []Action {
	return slices.Clone(q.actions)
}

func (q *QTable[S]) Len() int {
	return len(q.data)
}

// States lists every initialised state ordered by cmp.
func (q *QTable[S]) States(cmp func(a, b S) int) []S {
	states := make([]S, 0, len(q.data))
	for s := range q.data {
		states = append(states, s)
	}
	slices.SortFunc(states, cmp)
	return states
}

func (q *QTable[S]) set(state S, action Action, value float64) {
	i, ok := q.index[action]
	if !ok {
		return
	}
	q.ensureRow(state)[i] = value
}

func argmax(row []float64) int {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return best
}
