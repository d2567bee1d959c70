package ports

// OrderMetrics contadores de negocio de pedidos.
type OrderMetrics interface {
	OrderCreated(city, eggType string)
	OrderStatusChanged(from, to string)
	OrderDeleted()
}

// NopOrderMetrics implementación vacía.
type NopOrderMetrics struct{}

func (NopOrderMetrics) OrderCreated(string, string)       {}
func (NopOrderMetrics) OrderStatusChanged(string, string) {}
func (NopOrderMetrics) OrderDeleted()                     {}
