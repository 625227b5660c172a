package sim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "kinematic3d/sim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	ticks        metric.Int64Counter
	tickDuration metric.Float64Histogram
	stateChanges metric.Int64Counter
	groundEnters metric.Int64Counter
	entities     metric.Int64ObservableGauge
}

// newMetrics registers the simulation instruments on the global meter
// provider, which is a no-op unless the process installs one.
func newMetrics(w *World) (*metrics, error) {
	m := meter()
	out := &metrics{}

	var err error
	out.ticks, err = m.Int64Counter(
		"sim.ticks",
		metric.WithDescription("Simulation ticks stepped"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	out.tickDuration, err = m.Float64Histogram(
		"sim.tick.duration",
		metric.WithDescription("Wall time spent in one tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick duration histogram: %w", err)
	}

	out.stateChanges, err = m.Int64Counter(
		"sim.entity.state_changes",
		metric.WithDescription("Entity state machine transitions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating state change counter: %w", err)
	}

	out.groundEnters, err = m.Int64Counter(
		"sim.entity.ground_enters",
		metric.WithDescription("Entity landings"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ground enter counter: %w", err)
	}

	out.entities, err = m.Int64ObservableGauge(
		"sim.entities",
		metric.WithDescription("Entities in the world"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entity gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(out.entities, w.entityCount.Load())
			return nil
		},
		out.entities,
	)
	if err != nil {
		return nil, fmt.Errorf("registering entity callback: %w", err)
	}

	return out, nil
}

func entityAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("entity", name))
}
