package users

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/authstarter/go-auth-starter/internal/db/models"
)

var (
	// ErrSelfDelete is returned when an admin tries to delete their own account.
	ErrSelfDelete = errors.New("you can not delete your own account")

	// ErrNoIDs is returned by DeleteMany for an empty id list.
	ErrNoIDs = errors.New("no user ids given")
)

// MissingError lists the ids of a bulk operation that don't exist.
// It matches models.ErrUserNotFound with errors.Is.
type MissingError struct {
	IDs []uint64
}

func (e *MissingError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, strconv.FormatUint(id, 10))
	}

	return fmt.Sprintf("%s: %s", models.ErrUserNotFound, strings.Join(ids, ","))
}

// Is makes errors.Is(err, models.ErrUserNotFound) true.
func (e *MissingError) Is(target error) bool {
	return target == models.ErrUserNotFound //nolint:errorlint
}
