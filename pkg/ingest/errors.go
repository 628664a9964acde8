package ingest

import "fmt"

// FetchError indicates that a feed or audio enclosure could not be fetched or
// was malformed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates that a local audio path does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("audio path not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
