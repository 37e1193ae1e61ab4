package transform

type txtTransformer struct{}

func (txtTransformer) CanTransform(filename string) bool {
	return hasExt(filename, ".txt")
}

// Transform wraps the text verbatim; nothing is escaped.
func (txtTransformer) Transform(body string) (string, error) {
	return "<pre>" + body + "</pre>", nil
}
