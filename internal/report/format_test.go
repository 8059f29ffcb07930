package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "42", FormatNumber(42))
	assert.Equal(t, "18,248", FormatNumber(18248))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-9,500", FormatNumber(-9500))
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     float64
		precision int
		want      string
	}{
		{"rounds up", 1234.567, 2, "1,234.57"},
		{"pads zeros", 1234.5, 2, "1,234.50"},
		{"precision zero", 18248.4, 0, "18,248"},
		{"small value", 3.14159, 3, "3.142"},
		{"negative", -1234.5, 2, "-1,234.50"},
		{"zero", 0, 2, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatFloat(tt.value, tt.precision))
		})
	}
}

func TestFormatLarge(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "999,999", FormatLarge(999999))
	assert.Equal(t, "~1.0 million", FormatLarge(1000000))
	assert.Equal(t, "~2.3 million", FormatLarge(2300000))
	assert.Equal(t, "~1.5 billion", FormatLarge(1500000000))
	assert.Equal(t, "512", FormatLarge(512.4))
}

func TestFormatKg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42.5 kg CO2e", FormatKg(42.53))
	assert.Equal(t, "999.9 kg CO2e", FormatKg(999.94))
	assert.Equal(t, "1.00 t CO2e", FormatKg(1000))
	assert.Equal(t, "1.23 t CO2e", FormatKg(1234))
	assert.Equal(t, "16.00 t CO2e", FormatKg(16000))
	assert.Equal(t, "0.0 kg CO2e", FormatKg(0))
}
