package ports

// Tokenizer generates the opaque values handed out as tokens
type Tokenizer interface {
	NewValue() (string, error)
}
