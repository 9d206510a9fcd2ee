package qml

// QMLError is a sentinel error for invalid classifier input or state
type QMLError struct {
	Message string
}

func (e *QMLError) Error() string {
	return e.Message
}

var (
	ErrEmptyBatch     = &QMLError{"batch is empty"}
	ErrLengthMismatch = &QMLError{"targets and predictions differ in length"}
	ErrFeatureLength  = &QMLError{"feature vector must have 4 entries"}
	ErrZeroVector     = &QMLError{"cannot normalize a zero vector"}
	ErrShapeMismatch  = &QMLError{"weight tensor has the wrong shape"}
	ErrEmptyDataset   = &QMLError{"dataset is empty"}
	ErrInvalidConfig  = &QMLError{"invalid configuration"}
	ErrNotFitted      = &QMLError{"model has not been fitted"}
)
