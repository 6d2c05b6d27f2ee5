package roomservice

import "github.com/pkg/errors"

func newDuplicateStreamError(id StreamID) error {
	return errors.Errorf("room/service: stream %q already attached", string(id))
}
