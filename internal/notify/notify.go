// Package notify delivers probe failure alerts to chat webhooks.
package notify

import "errors"

// ErrDisabled is returned by a notifier that has no destination configured.
var ErrDisabled = errors.New("notifier disabled")
