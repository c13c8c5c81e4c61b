package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/listkeeper/internal/entity"
	"github.com/five82/listkeeper/internal/liststate"
	"github.com/five82/listkeeper/internal/remote"
)

// describeError turns an operation error into notification text.
func describeError(err error) string {
	if err == nil {
		return ""
	}

	var verr *entity.ValidationError
	var nferr *liststate.NotFoundError
	var rerr *remote.Error

	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Check %s: %s", verr.Field, verr.Reason)
	case errors.As(err, &nferr):
		return fmt.Sprintf("Record #%s no longer exists", nferr.ID)
	case errors.Is(err, liststate.ErrBusy):
		return "Still syncing, try again in a moment"
	case errors.As(err, &rerr):
		if rerr.Status != 0 {
			return fmt.Sprintf("Server rejected %s (status %d)", rerr.Op, rerr.Status)
		}
		return fmt.Sprintf("Could not %s: %s", rerr.Op, classifyConnectionError(rerr.Err))
	default:
		return err.Error()
	}
}

// classifyConnectionError maps transport failures to a short reason.
func classifyConnectionError(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "server offline"
	case strings.Contains(msg, "no such host"):
		return "host not found"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "timed out"
	case strings.Contains(msg, "decode"):
		return "unexpected response"
	default:
		return "network error"
	}
}
