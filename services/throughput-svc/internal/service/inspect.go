package service

import (
	"context"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/pkg/logger"
	"distflow/pkg/telemetry"
)

// Summary описание сети без расчёта потока
type Summary struct {
	Network    string                    `json:"network"`
	Statistics *domain.NetworkStatistics `json:"statistics"`
	Terminals  []string                  `json:"terminals"`
	Warehouses []string                  `json:"warehouses"`
	Stores     []string                  `json:"stores"`

	// Connected reports whether any store is reachable from any terminal
	// over positive-capacity edges.
	Connected bool `json:"connected"`
}

// Inspect проверяет, что сеть можно расширить и решить, не запуская расчёт
func (s *ThroughputService) Inspect(ctx context.Context, req *Request) (*Summary, error) {
	ctx, span := telemetry.StartSpan(ctx, "ThroughputService.Inspect")
	defer span.End()

	if req == nil || req.Network == nil {
		return nil, apperror.ErrNilNetwork
	}

	aug, err := augment(req)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	if domain.Reachable(aug.Network, aug.Source, domain.UnboundedOnly)[aug.Sink] {
		err := apperror.ErrUnboundedFlow
		telemetry.SetError(ctx, err)
		return nil, err
	}

	sum := &Summary{
		Network:    req.Network.Name,
		Statistics: domain.CalculateNetworkStatistics(req.Network),
		Terminals:  aug.Terminals,
		Warehouses: aug.Warehouses,
		Stores:     aug.Stores,
		Connected:  domain.IsConnected(aug.Network, aug.Source, aug.Sink),
	}

	telemetry.SetAttributes(ctx, telemetry.NetworkAttributes(sum.Network,
		sum.Statistics.NodeCount, sum.Statistics.EdgeCount,
		len(sum.Terminals), len(sum.Warehouses), len(sum.Stores))...)
	logger.Info("network inspected",
		"network", sum.Network,
		"nodes", sum.Statistics.NodeCount,
		"edges", sum.Statistics.EdgeCount,
		"connected", sum.Connected,
	)
	return sum, nil
}

// FlowStatistics считает утилизацию рёбер исходной сети
func (r *Result) FlowStatistics() *domain.FlowStatistics {
	if r.Augmented == nil || r.Assignment == nil {
		return nil
	}
	return domain.CalculateFlowStatistics(r.Augmented.Network, r.Assignment, r.Augmented.Source)
}
