package display

import "fmt"

// FormatTemperature renders a Celsius temperature, e.g. "Temp: 23.45 C".
func FormatTemperature(celsius float64) string {
	return fmt.Sprintf("Temp: %.2f C", celsius)
}

// FormatPressure renders a pressure given in pascals as hectopascals,
// e.g. "Pres: 1013.25 hPa".
func FormatPressure(pascals float64) string {
	return fmt.Sprintf("Pres: %.2f hPa", pascals/100)
}

// FormatLight renders a raw light reading. Failed reads arrive as the ADC's
// failure value and are shown as-is so the failure stays visible.
func FormatLight(raw int) string {
	return fmt.Sprintf("Light: %d", raw)
}
