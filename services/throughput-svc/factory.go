// services/throughput-svc/factory.go
package throughputsvc

import (
	"net/http"

	"distflow/pkg/metrics"
	"distflow/services/throughput-svc/internal/service"
	"distflow/services/throughput-svc/internal/transport"
)

// NewHandler создаёт HTTP обработчик сервиса для встраивания и бенчмарков.
// Он возвращает http.Handler, скрывая внутреннюю структуру реализации.
// m может быть nil: тогда метрики не пишутся.
func NewHandler(version string, m *metrics.Metrics) http.Handler {
	svc := service.NewThroughputService(service.Options{
		Version: version,
		Verify:  true,
		Metrics: m,
	})
	return transport.NewHandler(svc, transport.Options{Metrics: m})
}
