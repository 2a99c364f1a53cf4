package syntax

// OverrideKind says what a preprocessed code block turned into.
type OverrideKind int

const (
	// OverrideNone keeps the block as a foreign code block.
	OverrideNone OverrideKind = iota
	OverrideJS
	OverrideCSS
)

// Override is the result of preprocessing a code block.
type Override struct {
	Kind OverrideKind
	Body string
}

// Preprocessor transforms code blocks written in languages other than js and
// css, for example TypeScript or SCSS, into one the compiler understands.
type Preprocessor interface {
	Preprocess(lang, body string) (Override, error)
}

// NullPreprocessor leaves every block alone.
type NullPreprocessor struct{}

// Preprocess implements Preprocessor.
func (NullPreprocessor) Preprocess(string, string) (Override, error) {
	return Override{Kind: OverrideNone}, nil
}
