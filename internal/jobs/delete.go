// Package jobs holds remote mutations dispatched on behalf of the application.
package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
)

// objectIDSeparator joins the model type and key in an object ID
const objectIDSeparator = "::"

// ObjectRef identifies a record indexed on the search service
type ObjectRef struct {
	Type string
	ID   string
}

// EncodeObjectID returns the object ID and tag of ref, "<type>::<id>"
func EncodeObjectID(ref ObjectRef) string {
	return ref.Type + objectIDSeparator + ref.ID
}

// ParseObjectID splits an encoded object ID. The type may itself contain
// the separator; the ID is what follows the last one.
func ParseObjectID(encoded string) (ObjectRef, error) {
	i := strings.LastIndex(encoded, objectIDSeparator)
	if i <= 0 || i+len(objectIDSeparator) == len(encoded) {
		return ObjectRef{}, fmt.Errorf("invalid object ID %q, expected <type>%s<id>", encoded, objectIDSeparator)
	}
	return ObjectRef{Type: encoded[:i], ID: encoded[i+len(objectIDSeparator):]}, nil
}

// DeleteJob removes every record tagged with one of Objects from Index
type DeleteJob struct {
	Index   string
	Objects []ObjectRef
}

// Handle sends a single delete-by request whose tag filter ORs all object
// tags. When synchronous it waits for the task to be published. An empty
// job does nothing.
func (j DeleteJob) Handle(ctx context.Context, client searchapi.Client, synchronous bool) error {
	if len(j.Objects) == 0 {
		return nil
	}

	tags := make([]string, 0, len(j.Objects))
	for _, ref := range j.Objects {
		tags = append(tags, EncodeObjectID(ref))
	}

	task, err := client.DeleteBy(ctx, j.Index, [][]string{tags})
	if err != nil {
		return fmt.Errorf("failed to delete %d objects from %s: %w", len(tags), j.Index, err)
	}
	logger.Debugf("Delete of %d objects from %s accepted as task %d", len(tags), j.Index, task)

	if !synchronous {
		return nil
	}
	if err := client.WaitForTask(ctx, j.Index, task); err != nil {
		return fmt.Errorf("failed to wait for delete task %d on %s: %w", task, j.Index, err)
	}
	return nil
}
