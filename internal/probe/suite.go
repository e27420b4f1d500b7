package probe

import (
	"context"

	"go.uber.org/multierr"

	"github.com/hamed0406/apiconnect/internal/domain"
)

// RunAll probes each descriptor in order. Escaped faults do not stop the run;
// they are combined into the returned error.
func RunAll(ctx context.Context, r Runner, ds []Descriptor) ([]domain.Outcome, error) {
	outcomes := make([]domain.Outcome, 0, len(ds))
	var errs error
	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return outcomes, multierr.Append(errs, err)
		}
		out, err := r.Probe(ctx, d)
		outcomes = append(outcomes, out)
		errs = multierr.Append(errs, err)
	}
	return outcomes, errs
}
