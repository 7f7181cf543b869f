package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// AddressSource tells where a customer's address came from during an upsert.
type AddressSource string

const (
	AddressSourceStore  AddressSource = "store"
	AddressSourceLookup AddressSource = "lookup"
)

// Save operations recorded by RecordCustomerSaved
const (
	OperationInsert = "insert"
	OperationUpdate = "update"
)

// RegistrationMetrics counts address resolutions and customer saves.
// A nil *RegistrationMetrics is valid and records nothing.
type RegistrationMetrics struct {
	addressResolutions *Counter
	lookupFailures     *Counter
	lookupDuration     *Histogram
	customersSaved     *Counter
}

// ErrMeterNil is returned when a nil meter is supplied.
var ErrMeterNil = &MetricsError{Op: "NewRegistrationMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics setup error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewRegistrationMetrics registers the instruments on meter.
func NewRegistrationMetrics(meter metric.Meter) (*RegistrationMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		rm  = &RegistrationMetrics{}
		err error
	)
	rm.addressResolutions, err = NewCounter(meter,
		"custreg_address_resolutions_total",
		"Addresses resolved during customer upserts, by source",
		"{addresses}",
	)
	if err != nil {
		return nil, err
	}
	rm.lookupFailures, err = NewCounter(meter,
		"custreg_address_lookup_failures_total",
		"Failed postal code lookups",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}
	rm.lookupDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "custreg_address_lookup_duration_seconds",
		Description: "Duration of postal code lookups",
		Unit:        "s",
		Boundaries:  LookupDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	rm.customersSaved, err = NewCounter(meter,
		"custreg_customers_saved_total",
		"Completed customer upserts, by operation",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// RecordAddressResolved counts one address taken from source.
func (rm *RegistrationMetrics) RecordAddressResolved(ctx context.Context, source AddressSource) {
	if rm == nil {
		return
	}
	rm.addressResolutions.Inc(ctx, AttrSource.String(string(source)))
}

// RecordLookup records the duration of a lookup and counts it as failed when err is non-nil.
func (rm *RegistrationMetrics) RecordLookup(ctx context.Context, d time.Duration, err error) {
	if rm == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
		rm.lookupFailures.Inc(ctx)
	}
	rm.lookupDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// RecordCustomerSaved counts one completed upsert.
func (rm *RegistrationMetrics) RecordCustomerSaved(ctx context.Context, operation string) {
	if rm == nil {
		return
	}
	rm.customersSaved.Inc(ctx, AttrOperation.String(operation))
}
