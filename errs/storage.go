package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Attachment-Store Errors. Put failures abort the enclosing operation;
// delete failures never do (a missing blob is treated as already deleted).
var (
	ErrStoragePut    = errors.New("attachment store put failed")
	ErrStorageDelete = errors.New("attachment store delete failed")
	ErrStorageRead   = errors.New("attachment store read failed")
)

func NewStoragePutError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStoragePut,
		Details:    fmt.Sprintf("Failed to store attachment at %s", path),
		Cause:      cause,
		Field:      "image",
	}
}

func NewStorageDeleteError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageDelete,
		Details:    fmt.Sprintf("Failed to delete attachment at %s", path),
		Cause:      cause,
		Field:      "image",
	}
}

func NewStorageReadError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageRead,
		Details:    fmt.Sprintf("Failed to read attachment at %s", path),
		Cause:      cause,
		Field:      "image",
	}
}

func IsStoragePutError(err error) bool {
	return errors.Is(err, ErrStoragePut)
}

func IsStorageDeleteError(err error) bool {
	return errors.Is(err, ErrStorageDelete)
}
