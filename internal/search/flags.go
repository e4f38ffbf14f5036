package search

// todoFlags maps the todo literals to the flag they set and the flag that
// must not already be set.
var todoFlags = map[string]struct {
	set       func(q *Query) *bool
	conflicts func(q *Query) *bool
}{
	"todo:true": {
		set:       func(q *Query) *bool { return &q.Finished },
		conflicts: func(q *Query) *bool { return &q.NegatedFinished },
	},
	"-todo:true": {
		set:       func(q *Query) *bool { return &q.NegatedFinished },
		conflicts: func(q *Query) *bool { return &q.Finished },
	},
	"todo:false": {
		set:       func(q *Query) *bool { return &q.Unfinished },
		conflicts: func(q *Query) *bool { return &q.NegatedUnfinished },
	},
	"-todo:false": {
		set:       func(q *Query) *bool { return &q.NegatedUnfinished },
		conflicts: func(q *Query) *bool { return &q.Unfinished },
	},
}

const (
	anyTodoLiteral    = "todo:*"
	encryptionLiteral = "encryption:"
)

// extractFlags consumes the todo and encryption literals.
func extractFlags(q *Query, words []string) ([]string, error) {
	out := words[:0]
	for _, w := range words {
		if flag, ok := todoFlags[w]; ok {
			if *flag.conflicts(q) {
				return nil, &QueryError{Kind: ErrConflictingTodoState, Word: w}
			}
			*flag.set(q) = true
			continue
		}
		switch w {
		case anyTodoLiteral:
			q.AnyTodo = true
		case encryptionLiteral:
			q.Encryption = true
		default:
			out = append(out, w)
		}
	}
	return out, nil
}
