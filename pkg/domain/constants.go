package domain

import "math"

// Математические константы
const (
	Epsilon  = 1e-9
	Infinity = math.MaxFloat64
)

// Зарезервированные идентификаторы виртуальных узлов
const (
	SuperSourceID = "__super_source__"
	SuperSinkID   = "__super_sink__"
)

// SaturationThreshold утилизация, начиная с которой ребро считается насыщенным
const SaturationThreshold = 1.0 - 1e-9

// IsReservedID проверяет, зарезервирован ли идентификатор под виртуальный узел
func IsReservedID(id string) bool {
	return id == SuperSourceID || id == SuperSinkID
}

// FloatEquals сравнивает два float64 с учётом Epsilon
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// FloatEqualsTol сравнивает два float64 с заданным допуском
func FloatEqualsTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// IsZero проверяет, равно ли значение нулю
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// IsPositive проверяет, положительно ли значение
func IsPositive(v float64) bool {
	return v > Epsilon
}

// Min возвращает минимум двух float64
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Round округляет значение до заданного числа знаков после запятой
func Round(v float64, digits int) float64 {
	if digits < 0 {
		return v
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
