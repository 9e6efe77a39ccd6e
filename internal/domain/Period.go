package domain

import (
	"time"
)

// Period é uma janela móvel de agregação terminando na data de referência
type Period struct {
	Label string
	Days  int
}

// Periods é o conjunto fixo e ordenado de períodos de agregação. A ordem
// define o layout do array de valores dos bundles e é um contrato de
// compatibilidade com a camada de relatórios
var Periods = []Period{
	{Label: "3d", Days: 3},
	{Label: "7d", Days: 7},
	{Label: "14d", Days: 14},
	{Label: "30d", Days: 30},
	{Label: "90d", Days: 90},
}

// BasePeriod é o maior período configurado, usado como chave de enumeração do
// universo de anúncios
func BasePeriod() Period {
	return Periods[len(Periods)-1]
}

// PeriodLabels retorna os rótulos dos períodos na ordem canônica
func PeriodLabels() []string {
	labels := make([]string, 0, len(Periods))
	for _, p := range Periods {
		labels = append(labels, p.Label)
	}
	return labels
}

// Cutoff calcula a data de corte do período: reference − (dias − 1), com piso
// na data mais antiga disponível quando informada
func (p Period) Cutoff(reference time.Time, minDate time.Time) time.Time {
	cutoff := reference.AddDate(0, 0, -(p.Days - 1))
	if !minDate.IsZero() && cutoff.Before(minDate) {
		return minDate
	}
	return cutoff
}
