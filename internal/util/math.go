package util

// ModMod возвращает остаток x по модулю y в диапазоне [0, y).
// Для отрицательных x остаток "заворачивается" вперёд: y - (|x| mod y),
// что нужно для разложения отрицательных мировых координат на чанк и
// локальную позицию. y должен быть положительным.
func ModMod(x, y int) int {
	if x >= 0 {
		return x % y
	}
	r := (-x) % y
	if r == 0 {
		return 0
	}
	return y - r
}

// FloorDiv выполняет целочисленное деление с округлением вниз (к -inf).
func FloorDiv(x, y int) int {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// Lerp линейно интерполирует между a и b с весом t (0 -> a, 1 -> b)
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
