package dataset

// Record represents a single input item as key-value pairs.
type Record = map[string]any

// Iterator provides streaming access to records.
type Iterator interface {
	// Next advances to the next record. Returns false when done or on error.
	Next() bool

	// Value returns the current record. Only valid after Next() returns true.
	Value() Record

	// Err returns any error encountered during iteration.
	Err() error

	// Close releases the input handle. Must be called when done.
	Close() error
}
