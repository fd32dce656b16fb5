package extract

import "errors"

var (
	// ErrUnsupportedFormat means the file extension is not on the allow-list.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptInput means the document or image could not be decoded.
	ErrCorruptInput = errors.New("corrupt or unreadable input")

	// ErrTraversalRejected means an archive entry's resolved path would
	// escape the extraction root.
	ErrTraversalRejected = errors.New("archive entry path escapes extraction root")

	// ErrExtractionTimeout means a single file's extraction exceeded its deadline.
	ErrExtractionTimeout = errors.New("extraction timed out")
)
