package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodCutoff(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		period   Period
		minDate  time.Time
		expected time.Time
	}{
		{
			name:     "Período de 7 dias termina na referência e começa 6 dias antes",
			period:   Period{Label: "7d", Days: 7},
			expected: time.Date(2025, 8, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Período de 3 dias corta em 23 de agosto",
			period:   Period{Label: "3d", Days: 3},
			expected: time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Corte recebe piso na data mais antiga disponível",
			period:   Period{Label: "90d", Days: 90},
			minDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Piso não se aplica quando o corte já é mais recente",
			period:   Period{Label: "3d", Days: 3},
			minDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.period.Cutoff(reference, tt.minDate))
		})
	}
}

func TestPeriodCutoffsAreNested(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	// Períodos mais curtos sempre têm corte maior ou igual aos mais longos
	for i := 1; i < len(Periods); i++ {
		shorter := Periods[i-1].Cutoff(reference, time.Time{})
		longer := Periods[i].Cutoff(reference, time.Time{})
		assert.False(t, shorter.Before(longer),
			"corte de %s deveria ser >= corte de %s", Periods[i-1].Label, Periods[i].Label)
	}
}

func TestBasePeriod(t *testing.T) {
	assert.Equal(t, "90d", BasePeriod().Label)
	assert.Equal(t, 90, BasePeriod().Days)
}

func TestPeriodLabels(t *testing.T) {
	assert.Equal(t, []string{"3d", "7d", "14d", "30d", "90d"}, PeriodLabels())
}
