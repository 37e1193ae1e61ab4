package errors

// Config errors

func ConfigNotFound(path string) *RuthlessError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *RuthlessError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ConfigInvalid(path string, cause error) *RuthlessError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration could not be read").
		WithContext("path", path)
}

// MissingPath reports a required site folder or theme file that does not exist.
func MissingPath(what, path string) *RuthlessError {
	return New(CategoryConfig, SeverityFatal, "cannot find "+what).
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *RuthlessError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Pipeline errors

func ParseFailed(path string, cause error) *RuthlessError {
	return Wrap(cause, CategoryParse, SeverityFatal, "front-matter could not be parsed").
		WithContext("path", path)
}

func RenderFailed(path string, cause error) *RuthlessError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page could not be rendered").
		WithContext("path", path)
}

func FileSystemError(operation, path string, cause error) *RuthlessError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *RuthlessError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
