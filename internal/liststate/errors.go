package liststate

import (
	"errors"
	"fmt"

	"github.com/five82/listkeeper/internal/entity"
)

// ErrBusy is returned when a write or refresh is requested while a remote call
// is still outstanding.
var ErrBusy = errors.New("sync in progress")

// NotFoundError reports an operation on an id absent from the snapshot.
type NotFoundError struct {
	ID entity.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.ID)
}
