package types

// Metadata represents a free-form key-value document attribute
type Metadata map[string]string
