package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantRecibida * CostoRecibido)) / (StockActual + CantRecibida)
// Con stock actual cero el promedio es directamente el costo recibido.
// Es el único punto donde cambia el costo promedio: picks, traslados y
// ajustes no lo alteran.
func CostCalculator(stockActual, costoActual, cantRecibida, costoRecibido decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return costoRecibido
	}
	sum := stockActual.Add(cantRecibida)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantRecibida.Mul(costoRecibido))
	return num.Div(sum)
}
