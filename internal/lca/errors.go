package lca

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Graph construction and evaluation errors.
const (
	ErrCycle              = constError("formula graph has a cycle")
	ErrUndefinedReference = constError("formula references an undeclared name")
	ErrDuplicateName      = constError("duplicate node or input name")
	ErrBadExpression      = constError("invalid formula expression")
	ErrUnknownInput       = constError("unknown input")
	ErrUnknownNode        = constError("unknown node")
	ErrUnknownFormulaMode = constError("unknown formula mode")
)
