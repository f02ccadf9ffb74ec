package dataset

import "errors"

var (
	// ErrUnknownAttribute is returned when a named attribute is not in the schema.
	ErrUnknownAttribute = errors.New("dataset: unknown attribute")

	// ErrDuplicateAttribute is returned when an operation would leave two
	// attributes with the same name.
	ErrDuplicateAttribute = errors.New("dataset: duplicate attribute")

	// ErrNoClass is returned when a class (label) attribute is required but
	// the dataset has none, or it is not nominal.
	ErrNoClass = errors.New("dataset: no nominal class attribute")

	// ErrUnknownClassValue is returned when a label is outside the class domain.
	ErrUnknownClassValue = errors.New("dataset: unknown class value")

	// ErrRowWidth is returned when a row does not have one value per attribute.
	ErrRowWidth = errors.New("dataset: row width does not match schema")

	// ErrRowCountMismatch is returned when a column-wise merge is given
	// datasets with different row counts.
	ErrRowCountMismatch = errors.New("dataset: row count mismatch")

	// ErrIndexOutOfRange is returned for attribute or row indices outside the dataset.
	ErrIndexOutOfRange = errors.New("dataset: index out of range")
)
