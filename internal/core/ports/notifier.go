package ports

import "context"

// Notifier is the opaque send-notification capability. The provider's
// wire protocol is not modelled here; params are display fields and a
// free-text body assembled by the workflow's params builder.
type Notifier interface {
	Send(ctx context.Context, params map[string]string) error
}
