package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	AttrRunID = "distflow.run_id"

	// Сеть
	AttrNetworkName       = "network.name"
	AttrNetworkNodes      = "network.nodes"
	AttrNetworkEdges      = "network.edges"
	AttrNetworkTerminals  = "network.terminals"
	AttrNetworkWarehouses = "network.warehouses"
	AttrNetworkStores     = "network.stores"

	// Решение
	AttrMaxFlow    = "solve.max_flow"
	AttrIterations = "solve.iterations"
	AttrCutEdges   = "solve.cut_edges"
	AttrCacheHit   = "solve.cache_hit"

	// Атрибуция
	AttrStrategy = "attribution.strategy"
	AttrRows     = "attribution.rows"

	// Проверка потока
	AttrValidationErrors = "validation.errors"
	AttrValidationPassed = "validation.passed"
)

// NetworkAttributes возвращает атрибуты сети
func NetworkAttributes(name string, nodes, edges, terminals, warehouses, stores int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrNetworkName, name),
		attribute.Int(AttrNetworkNodes, nodes),
		attribute.Int(AttrNetworkEdges, edges),
		attribute.Int(AttrNetworkTerminals, terminals),
		attribute.Int(AttrNetworkWarehouses, warehouses),
		attribute.Int(AttrNetworkStores, stores),
	}
}

// SolveAttributes возвращает атрибуты решения
func SolveAttributes(maxFlow float64, iterations, cutEdges int, cacheHit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64(AttrMaxFlow, maxFlow),
		attribute.Int(AttrIterations, iterations),
		attribute.Int(AttrCutEdges, cutEdges),
		attribute.Bool(AttrCacheHit, cacheHit),
	}
}

// AttributionAttributes возвращает атрибуты атрибуции
func AttributionAttributes(strategy string, rows int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrStrategy, strategy),
		attribute.Int(AttrRows, rows),
	}
}

// ValidationAttributes возвращает атрибуты проверки потока
func ValidationAttributes(errorsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}
