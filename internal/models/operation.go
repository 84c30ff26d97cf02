package models

// Operation categorises an audit trail entry. The set is fixed; anything else
// is rejected before persistence.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationDispatch Operation = "dispatch"
	OperationUpdate   Operation = "update"
	OperationRemove   Operation = "remove"
	OperationGenerate Operation = "generate"
	OperationScan     Operation = "scan"
)

// Operations lists every valid operation kind.
func Operations() []Operation {
	return []Operation{
		OperationAdd,
		OperationDispatch,
		OperationUpdate,
		OperationRemove,
		OperationGenerate,
		OperationScan,
	}
}

// IsValid reports whether the operation is a member of the fixed set.
func (o Operation) IsValid() bool {
	switch o {
	case OperationAdd, OperationDispatch, OperationUpdate, OperationRemove, OperationGenerate, OperationScan:
		return true
	default:
		return false
	}
}

func (o Operation) String() string {
	return string(o)
}
