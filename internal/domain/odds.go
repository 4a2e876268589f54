package domain

// odds.go — matemática pura de cuotas decimales.

// ImpliedProbability convierte una cuota decimal en su probabilidad implícita.
// Devuelve 0 para cuotas inválidas (≤ 0).
func ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return 1 / odds
}

// Overround devuelve el margen del bookmaker: Σ probabilidades implícitas − 1.
// Negativo = el mercado paga más de lo que recauda (arbitraje teórico).
func Overround(m MarketSnapshot) float64 {
	return m.ImpliedTotal() - 1
}

// Mean devuelve la media aritmética de values, o 0 si está vacío.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PctChange devuelve el cambio relativo de from a to.
// Devuelve 0 si from no es positivo.
func PctChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to - from) / from
}

// Clamp limita v al rango [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
