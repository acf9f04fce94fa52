package types

const (
	ContextUserKey      = "user"
	ContextOperationKey = "operation"
)
