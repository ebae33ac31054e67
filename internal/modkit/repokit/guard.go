package repokit

import (
	"context"
	"fmt"
	"time"
)

// GuardTimeout bounds Guard when ctx carries no deadline
const GuardTimeout = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// Guard pings every backend st holds before the process starts taking traffic
func Guard(ctx context.Context, st guarder) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, GuardTimeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		return fmt.Errorf("dependency guard failed: %w", err)
	}
	return nil
}
