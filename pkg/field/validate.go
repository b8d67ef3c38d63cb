package field

import (
	"context"

	"go.uber.org/zap"
)

type validationRun struct {
	generation uint64
	req        validateRequest
}

// Validate runs the configured validators in declared order against the
// current value (or WithValue) and a nested form snapshot (or WithFormData).
//
// Every call takes the next generation number. The run's errors replace the
// visible errors of the addressed type only if no later call started in the
// meantime; stale runs are still returned to their caller. Superseded runs
// are not cancelled.
func (f *Field) Validate(ctx context.Context, opts ...ValidateOption) Result {
	run := f.beginValidation(opts)
	return f.completeValidation(ctx, run)
}

// ValidateAsync is the deferred form of Validate. The generation number is
// taken before returning, so call order decides which run wins. The channel
// receives exactly one Result and is then closed.
func (f *Field) ValidateAsync(ctx context.Context, opts ...ValidateOption) <-chan Result {
	run := f.beginValidation(opts)
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- f.completeValidation(ctx, run)
	}()
	return out
}

func (f *Field) beginValidation(opts []ValidateOption) validationRun {
	var req validateRequest
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	if !req.hasFormData {
		req.formData = f.form.FormData(DataOptions{})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !req.hasValue {
		req.value = f.value
	}
	f.generation++
	f.validated = true
	f.validating = true
	if f.cfg.IsValidationAsync {
		f.errors = filterErrors(f.errors, ValidationTypeField, ValidationTypeAsync)
	}
	return validationRun{generation: f.generation, req: req}
}

func (f *Field) completeValidation(ctx context.Context, run validationRun) Result {
	errs := f.runValidations(ctx, run.req)

	target := run.req.validationType
	if target == "" {
		target = ValidationTypeField
	}

	f.mu.Lock()
	current := run.generation == f.generation
	if current {
		f.validating = false
		f.errors = append(filterErrors(f.errors, target), errs...)
	}
	latest := f.generation
	f.mu.Unlock()

	if !current {
		f.logger.Debug("discarding stale validation result",
			zap.String("path", f.path),
			zap.Uint64("generation", run.generation),
			zap.Uint64("latest", latest),
			zap.Int("errors", len(errs)))
	}

	return Result{IsValid: len(errs) == 0, Errors: cloneErrors(errs)}
}

// runValidations executes validators one after the other; each sees the
// failures accumulated before it. It never holds the field lock.
func (f *Field) runValidations(ctx context.Context, req validateRequest) []ValidationError {
	var errs []ValidationError
	for _, validation := range f.cfg.Validations {
		vt := validation.typeOrDefault()
		if req.validationType != "" && vt != req.validationType {
			continue
		}
		if validation.Validator == nil {
			continue
		}

		failure, failed := f.invoke(ctx, validation.Validator, ValidatorArgs{
			Value:    req.value,
			Errors:   cloneErrors(errs),
			FormData: req.formData,
			Path:     f.path,
		})
		if !failed {
			continue
		}
		failure.Message = validation.Message.resolve(failure)
		failure.ValidationType = vt
		errs = append(errs, failure)
		if !validation.ContinueOnFail {
			break
		}
	}
	return errs
}

func (f *Field) invoke(ctx context.Context, validator Validator, args ValidatorArgs) (failure ValidationError, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("validator panicked", zap.String("path", f.path), zap.Any("panic", r))
			failure, failed = normalizeFailure(r)
			if !failed {
				failure, failed = ValidationError{Message: "validator panicked"}, true
			}
		}
	}()
	return normalizeFailure(validator(ctx, args))
}
